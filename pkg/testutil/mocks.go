package testutil

import (
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// MockDB pairs a sqlx handle with its sqlmock controller for repository
// unit tests that never touch a real database. Wrap the DB field with
// database.Wrap before handing it to a repository.
type MockDB struct {
	DB   *sqlx.DB
	Mock sqlmock.Sqlmock
}

// NewMockDB opens a sqlmock-backed sqlx database.
func NewMockDB(t *testing.T) *MockDB {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	return &MockDB{
		DB:   sqlx.NewDb(db, "postgres"),
		Mock: mock,
	}
}

// Close closes the underlying mock connection.
func (m *MockDB) Close() error {
	return m.DB.Close()
}

// ExpectQuery expects a query containing the given SQL fragment,
// treating it literally rather than as a regular expression.
func (m *MockDB) ExpectQuery(fragment string) *sqlmock.ExpectedQuery {
	return m.Mock.ExpectQuery(regexp.QuoteMeta(fragment))
}

// ExpectExec expects an exec containing the given SQL fragment.
func (m *MockDB) ExpectExec(fragment string) *sqlmock.ExpectedExec {
	return m.Mock.ExpectExec(regexp.QuoteMeta(fragment))
}

// ExpectationsWereMet fails the test if any expectation went unmet.
func (m *MockDB) ExpectationsWereMet(t *testing.T) {
	t.Helper()
	if err := m.Mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// MockRows starts a result set with the given columns.
func MockRows(columns ...string) *sqlmock.Rows {
	return sqlmock.NewRows(columns)
}

// AnyTime matches any time.Time argument.
type AnyTime struct{}

func (AnyTime) Match(v driver.Value) bool {
	_, ok := v.(time.Time)
	return ok
}

var uuidPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// AnyUUID matches any canonically formatted UUID string argument.
type AnyUUID struct{}

func (AnyUUID) Match(v driver.Value) bool {
	s, ok := v.(string)
	return ok && uuidPattern.MatchString(s)
}

// DecimalEq matches a decimal argument by value, whatever representation
// the driver chose for it.
type DecimalEq struct {
	Want decimal.Decimal
}

func (d DecimalEq) Match(v driver.Value) bool {
	switch val := v.(type) {
	case string:
		got, err := decimal.NewFromString(val)
		return err == nil && got.Equal(d.Want)
	case []byte:
		got, err := decimal.NewFromString(string(val))
		return err == nil && got.Equal(d.Want)
	case float64:
		return decimal.NewFromFloat(val).Equal(d.Want)
	case int64:
		return decimal.NewFromInt(val).Equal(d.Want)
	}
	return false
}
