// Package provider provides database client abstractions over the raw connection.
package provider

import (
	"fmt"

	"github.com/jamfest/guardian-consent/internal/system/database"
	dbmodel "github.com/jamfest/guardian-consent/internal/system/database/model"
	"github.com/jamfest/guardian-consent/internal/system/log"
)

// DBClientInterface defines the interface for executing identified queries
// against the underlying database.
type DBClientInterface interface {
	Query(query dbmodel.DBQuery, args ...interface{}) ([]map[string]interface{}, error)
	Execute(query dbmodel.DBQuery, args ...interface{}) (int64, error)
	BeginTx() (dbmodel.TxInterface, error)
	DBType() string
}

// dbClient is the default DBClientInterface implementation.
type dbClient struct {
	db     *database.DB
	dbType string
}

// NewDBClient creates a new database client for the given connection.
func NewDBClient(db *database.DB, dbType string) DBClientInterface {
	return &dbClient{
		db:     db,
		dbType: dbType,
	}
}

// DBType returns the configured database type.
func (c *dbClient) DBType() string {
	return c.dbType
}

// Query runs a read query and returns the result rows as generic maps.
func (c *dbClient) Query(query dbmodel.DBQuery, args ...interface{}) ([]map[string]interface{}, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "DBClient"))

	rows, err := c.db.Queryx(query.GetQuery(c.dbType), args...)
	if err != nil {
		logger.Error("Query execution failed", log.String("query_id", query.ID), log.Error(err))
		return nil, fmt.Errorf("query %s failed: %w", query.ID, err)
	}
	defer rows.Close()

	results := make([]map[string]interface{}, 0)
	for rows.Next() {
		row := make(map[string]interface{})
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("query %s scan failed: %w", query.ID, err)
		}
		normalizeRow(row)
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query %s iteration failed: %w", query.ID, err)
	}

	return results, nil
}

// Execute runs a write query and returns the number of affected rows.
func (c *dbClient) Execute(query dbmodel.DBQuery, args ...interface{}) (int64, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "DBClient"))

	result, err := c.db.Exec(query.GetQuery(c.dbType), args...)
	if err != nil {
		logger.Error("Statement execution failed", log.String("query_id", query.ID), log.Error(err))
		return 0, fmt.Errorf("statement %s failed: %w", query.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return affected, nil
}

// BeginTx starts a new transaction.
func (c *dbClient) BeginTx() (dbmodel.TxInterface, error) {
	tx, err := c.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return dbmodel.NewTx(tx), nil
}

// normalizeRow converts driver-specific value types to the types store
// mappers expect: []byte columns become strings.
func normalizeRow(row map[string]interface{}) {
	for key, value := range row {
		if b, ok := value.([]byte); ok {
			row[key] = string(b)
		}
	}
}
