package travelers

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbanmobility/umob/internal/common"
	"github.com/urbanmobility/umob/internal/models"
	"github.com/urbanmobility/umob/internal/storage"
)

func testRepo(t *testing.T) (*SQLiteRepository, *sql.DB) {
	t.Helper()
	db, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLiteRepository(db), db
}

func testTraveler(customerID, firstName string) *models.Traveler {
	return &models.Traveler{
		CustomerID:       customerID,
		FirstName:        firstName,
		LastName:         "Jones",
		Birthday:         "01-02-1990",
		Gender:           "male",
		StreetName:       "Coolsingel",
		HouseNumber:      "12",
		ZipCode:          "3011AB",
		City:             "Rotterdam",
		Email:            "tok_mail_" + customerID,
		MobilePhone:      "tok_phone",
		DrivingLicense:   "tok_license",
		RegistrationDate: time.Now().Format(time.RFC3339),
	}
}

func TestSQLiteRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo, _ := testRepo(t)

	id, err := repo.Create(ctx, testTraveler("CUST000001", "Bob"))
	require.NoError(t, err)
	require.Positive(t, id)

	tr, err := repo.GetByCustomerID(ctx, "CUST000001")
	require.NoError(t, err)
	assert.Equal(t, "Bob", tr.FirstName)
	assert.Equal(t, "tok_mail_CUST000001", tr.Email)

	_, err = repo.GetByCustomerID(ctx, "CUST999999")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSQLiteRepository_DuplicateCustomerID(t *testing.T) {
	ctx := context.Background()
	repo, _ := testRepo(t)

	_, err := repo.Create(ctx, testTraveler("CUST000001", "Bob"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, testTraveler("CUST000001", "Carol"))
	require.Error(t, err)
}

func TestSQLiteRepository_SearchPlain(t *testing.T) {
	ctx := context.Background()
	repo, _ := testRepo(t)

	_, err := repo.Create(ctx, testTraveler("CUST000001", "Bob"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, testTraveler("CUST000002", "Carol"))
	require.NoError(t, err)

	// Partial, case-insensitive matches on id and names.
	byID, err := repo.SearchPlain(ctx, "000002")
	require.NoError(t, err)
	require.Len(t, byID, 1)
	assert.Equal(t, "Carol", byID[0].FirstName)

	byName, err := repo.SearchPlain(ctx, "caro")
	require.NoError(t, err)
	require.Len(t, byName, 1)

	byLast, err := repo.SearchPlain(ctx, "jones")
	require.NoError(t, err)
	assert.Len(t, byLast, 2)

	none, err := repo.SearchPlain(ctx, "zzz")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSQLiteRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo, _ := testRepo(t)

	_, err := repo.Create(ctx, testTraveler("CUST000001", "Bob"))
	require.NoError(t, err)

	err = repo.Update(ctx, "CUST000001", map[string]string{
		"first_name": "Robert",
		"email":      "tok_new_mail",
	})
	require.NoError(t, err)

	tr, err := repo.GetByCustomerID(ctx, "CUST000001")
	require.NoError(t, err)
	assert.Equal(t, "Robert", tr.FirstName)
	assert.Equal(t, "tok_new_mail", tr.Email)

	err = repo.Update(ctx, "CUST000001", map[string]string{"customer_id": "CUST000009"})
	assert.ErrorIs(t, err, common.ErrInvalidInput)
	err = repo.Update(ctx, "CUST999999", map[string]string{"first_name": "X"})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSQLiteRepository_DeleteAndCount(t *testing.T) {
	ctx := context.Background()
	repo, _ := testRepo(t)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = repo.Create(ctx, testTraveler("CUST000001", "Bob"))
	require.NoError(t, err)
	n, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, repo.Delete(ctx, "CUST000001"))
	assert.ErrorIs(t, repo.Delete(ctx, "CUST000001"), common.ErrNotFound)
}
