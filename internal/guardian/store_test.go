package guardian

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamfest/guardian-consent/internal/guardian/model"
	"github.com/jamfest/guardian-consent/internal/system/database"
	"github.com/jamfest/guardian-consent/internal/system/database/provider"
)

var guardianColumnList = []string{
	"GUARDIAN_ID", "USER_ID", "FIRST_NAME", "LAST_NAME", "EMAIL", "PHONE_KEY",
	"PHONE_NUMBER", "NATIONAL_ID", "RELATIONSHIP", "CONSENT_TOKEN",
	"CONSENT_SENT_TIME", "CONSENT_GIVEN", "CONSENT_DATE", "WILL_ATTEND_EVENT",
	"CONSENT_DOCUMENT_URL", "NATIONAL_ID_IMAGE_URL", "SIGNATURE_URL",
	"APPROVAL_STATUS", "REJECTION_REASON", "APPROVED_BY", "APPROVED_AT",
	"CREATED_TIME", "UPDATED_TIME",
}

func newMockStore(t *testing.T) (GuardianStore, sqlmock.Sqlmock, func()) {
	t.Helper()

	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)

	db := &database.DB{DB: sqlx.NewDb(mockDB, "sqlmock")}
	client := provider.NewDBClient(db, "mysql")

	return NewStore(client), mock, func() { mockDB.Close() }
}

func guardianRow() *sqlmock.Rows {
	return sqlmock.NewRows(guardianColumnList).AddRow(
		"guardian-1", "student-1", "Karim", "Saleh", "karim@example.com", "+20",
		"1001234567", nil, "father", "tok-1",
		int64(1700000000000), int64(0), nil, int64(0),
		nil, nil, nil,
		"pending", nil, nil, nil,
		int64(1700000000000), int64(1700000000000),
	)
}

func TestStoreGetByID(t *testing.T) {
	store, mock, cleanup := newMockStore(t)
	defer cleanup()

	mock.ExpectQuery(QueryGetGuardianByID.Query).
		WithArgs("guardian-1").
		WillReturnRows(guardianRow())

	guardian, err := store.GetByID(context.Background(), "guardian-1")

	require.NoError(t, err)
	require.NotNil(t, guardian)
	assert.Equal(t, "guardian-1", guardian.GuardianID)
	assert.Equal(t, "student-1", guardian.UserID)
	assert.Equal(t, model.StatusPending, guardian.ApprovalStatus)
	assert.Equal(t, "tok-1", guardian.ConsentToken)
	assert.False(t, guardian.ConsentGiven)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreGetByID_NotFound(t *testing.T) {
	store, mock, cleanup := newMockStore(t)
	defer cleanup()

	mock.ExpectQuery(QueryGetGuardianByID.Query).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(guardianColumnList))

	guardian, err := store.GetByID(context.Background(), "missing")

	require.NoError(t, err)
	assert.Nil(t, guardian)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreGetByConsentToken(t *testing.T) {
	store, mock, cleanup := newMockStore(t)
	defer cleanup()

	mock.ExpectQuery(QueryGetGuardianByConsentToken.Query).
		WithArgs("tok-1").
		WillReturnRows(guardianRow())

	guardian, err := store.GetByConsentToken(context.Background(), "tok-1")

	require.NoError(t, err)
	require.NotNil(t, guardian)
	assert.Equal(t, "guardian-1", guardian.GuardianID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreRotateConsentToken(t *testing.T) {
	guardianStore, mock, cleanup := newMockStore(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(QueryRotateConsentToken.Query).
		WithArgs("tok-2", int64(1700000001000), int64(1700000001000), "guardian-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := guardianStore.(*store).dbClient.BeginTx()
	require.NoError(t, err)

	require.NoError(t, guardianStore.RotateConsentToken(tx, "guardian-1", "tok-2", 1700000001000, 1700000001000))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreGetAdditionalStudents(t *testing.T) {
	store, mock, cleanup := newMockStore(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"STUDENT_ID"}).
		AddRow("student-2").
		AddRow("student-3")

	mock.ExpectQuery(QueryGetAdditionalStudents.Query).
		WithArgs("guardian-1").
		WillReturnRows(rows)

	students, err := store.GetAdditionalStudents(context.Background(), "guardian-1")

	require.NoError(t, err)
	assert.Equal(t, []string{"student-2", "student-3"}, students)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreList_Unfiltered(t *testing.T) {
	store, mock, cleanup := newMockStore(t)
	defer cleanup()

	// Without bind args go-sql-driver uses the text protocol and the
	// count arrives as bytes rather than int64.
	countRows := sqlmock.NewRows([]string{"count"}).AddRow([]byte("7"))
	mock.ExpectQuery(QueryCountGuardians.Query).WillReturnRows(countRows)
	mock.ExpectQuery(QueryListGuardians.Query).
		WithArgs(10, 0).
		WillReturnRows(guardianRow())

	guardians, total, err := store.List(context.Background(), "", 10, 0)

	require.NoError(t, err)
	assert.Equal(t, 7, total)
	require.Len(t, guardians, 1)
	assert.Equal(t, "guardian-1", guardians[0].GuardianID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreList_ByStatus(t *testing.T) {
	store, mock, cleanup := newMockStore(t)
	defer cleanup()

	countRows := sqlmock.NewRows([]string{"count"}).AddRow(int64(1))
	mock.ExpectQuery(QueryCountGuardiansByStatus.Query).
		WithArgs("pending").
		WillReturnRows(countRows)
	mock.ExpectQuery(QueryListGuardiansByStatus.Query).
		WithArgs("pending", 25, 0).
		WillReturnRows(guardianRow())

	guardians, total, err := store.List(context.Background(), model.StatusPending, 25, 0)

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, guardians, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMapToCount(t *testing.T) {
	assert.Equal(t, 7, mapToCount(int64(7)))
	assert.Equal(t, 7, mapToCount("7"))
	assert.Equal(t, 7, mapToCount([]byte("7")))
	assert.Equal(t, 0, mapToCount(nil))
	assert.Equal(t, 0, mapToCount("not-a-number"))
}
