package db

import (
	"regexp"
	"testing"

	"backoffice/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var longtextColumn = regexp.MustCompile("`(\\w+)` longtext([^,]*)")

// newMySQLMock opens GORM over sqlmock speaking the MySQL dialect
func newMySQLMock(t *testing.T, matcher sqlmock.QueryMatcher) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(matcher))
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{Conn: mockDB, SkipInitializeWithVersion: true}), NewGormConfig(gormlogger.Silent))
	require.NoError(t, err)
	return gdb, mock
}

func TestMySQLUniqueColumnsAreBoundedVarchar(t *testing.T) {
	gdb, mock := newMySQLMock(t, sqlmock.QueryMatcherRegexp)
	mock.ExpectExec("CREATE TABLE `clients` .*`email` varchar\\(191\\) NOT NULL").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE `services` .*`name` varchar\\(191\\) NOT NULL").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, gdb.Migrator().CreateTable(&domain.Client{}, &domain.Service{}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLSchemaIndexesNoLongtext(t *testing.T) {
	var statements []string
	record := sqlmock.QueryMatcherFunc(func(_, actual string) error {
		statements = append(statements, actual)
		return nil
	})
	gdb, mock := newMySQLMock(t, record)
	models := Models()
	for i := 0; i < 2*len(models); i++ {
		mock.ExpectExec("CREATE").WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, gdb.Migrator().CreateTable(models...))
	require.GreaterOrEqual(t, len(statements), len(models))

	for _, stmt := range statements {
		for _, m := range longtextColumn.FindAllStringSubmatch(stmt, -1) {
			column, rest := m[1], m[2]
			assert.NotContains(t, rest, "UNIQUE", "longtext column %s is unique", column)
			indexed := regexp.MustCompile("INDEX `[^`]+` \\([^)]*`" + regexp.QuoteMeta(column) + "`")
			assert.False(t, indexed.MatchString(stmt), "longtext column %s is indexed in %s", column, stmt)
		}
	}
}

func TestSeedUserLosingRaceDoesNotReportSeeding(t *testing.T) {
	gdb, mock := newMySQLMock(t, sqlmock.QueryMatcherRegexp)
	hook := test.NewLocal(logrus.StandardLogger())
	defer hook.Reset()

	mock.ExpectQuery("SELECT count").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry 'admin' for key 'users.username'"})
	mock.ExpectRollback()

	require.NoError(t, seedUser(gdb, Seed{Username: "admin", Password: "password123"}))
	assert.NoError(t, mock.ExpectationsWereMet())
	for _, e := range hook.AllEntries() {
		assert.NotEqual(t, "Seeded default user", e.Message)
	}
}
