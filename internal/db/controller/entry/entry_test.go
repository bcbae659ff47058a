package entry

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/clay-auth/clay-auth/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	// every pooled connection would get its own in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&models.Entry{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

// seedEntries inserts test data into the database.
func seedEntries(t *testing.T, db *gorm.DB, entries []models.Entry) {
	t.Helper()
	for _, e := range entries {
		err := db.Create(&e).Error
		require.NoError(t, err, "failed to seed test data")
	}
}

func TestGet(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		key           string
		seedData      []models.Entry
		expectedError error
		expectedValue []byte
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			key:           "test",
			expectedError: ErrDBNil,
		},
		{
			name:          "empty key",
			dbParam:       db,
			key:           "",
			expectedError: ErrEntryKeyEmpty,
		},
		{
			name:          "entry not found",
			dbParam:       db,
			key:           "/_users/nonexistent",
			expectedError: ErrEntryNotFound,
		},
		{
			name:    "successful get",
			dbParam: db,
			key:     "/_users/amRvZUBsb2NhbA==",
			seedData: []models.Entry{
				{Key: "/_users/amRvZUBsb2NhbA==", Value: []byte(`{"username":"jdoe"}`)},
			},
			expectedValue: []byte(`{"username":"jdoe"}`),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Clean database for each test
			if tc.dbParam != nil {
				tc.dbParam.Exec("DELETE FROM entries")
			}

			if tc.seedData != nil {
				seedEntries(t, tc.dbParam, tc.seedData)
			}

			e, err := Get(tc.dbParam, tc.key)

			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, e)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.key, e.Key)
				assert.Equal(t, tc.expectedValue, e.Value)
			}
		})
	}
}

func TestSet(t *testing.T) {
	db := setupTestDB(t)

	_, err := Set(nil, "a", nil)
	require.ErrorIs(t, err, ErrDBNil)

	_, err = Set(db, "", nil)
	require.ErrorIs(t, err, ErrEntryKeyEmpty)

	created, err := Set(db, "/_users/a", []byte("1"))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	updated, err := Set(db, "/_users/a", []byte("2"))
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID, "upsert must keep the row")

	got, err := Get(db, "/_users/a")
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), got.Value)

	var count int64
	db.Model(&models.Entry{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestListByPrefix(t *testing.T) {
	db := setupTestDB(t)

	seedEntries(t, db, []models.Entry{
		{Key: "/_users/b", Value: []byte("b")},
		{Key: "/_users/a", Value: []byte("a")},
		{Key: "/Xusers/wildcard", Value: []byte("x")},
		{Key: "/_components/c", Value: []byte("c")},
	})

	testCases := []struct {
		name     string
		prefix   string
		wantKeys []string
	}{
		{name: "users only, underscore is literal", prefix: "/_users/", wantKeys: []string{"/_users/a", "/_users/b"}},
		{name: "no match", prefix: "/_pages/", wantKeys: nil},
		{name: "everything", prefix: "", wantKeys: []string{"/Xusers/wildcard", "/_components/c", "/_users/a", "/_users/b"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			entries, err := ListByPrefix(db, tc.prefix)
			require.NoError(t, err)

			var keys []string
			for _, e := range entries {
				keys = append(keys, e.Key)
			}

			assert.Equal(t, tc.wantKeys, keys)
		})
	}

	_, err := ListByPrefix(nil, "")
	require.ErrorIs(t, err, ErrDBNil)
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)

	seedEntries(t, db, []models.Entry{{Key: "/_users/a", Value: []byte("a")}})

	require.ErrorIs(t, Delete(nil, "/_users/a"), ErrDBNil)
	require.ErrorIs(t, Delete(db, ""), ErrEntryKeyEmpty)
	require.ErrorIs(t, Delete(db, "/_users/missing"), ErrEntryNotFound)

	require.NoError(t, Delete(db, "/_users/a"))

	_, err := Get(db, "/_users/a")
	require.ErrorIs(t, err, ErrEntryNotFound)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, "/!_users/", escapeLike("/_users/"))
	assert.Equal(t, "a!%b!!c", escapeLike("a%b!c"))
}
