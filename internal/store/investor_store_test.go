package store

import (
	"testing"

	"investrack/internal/models"
	"investrack/internal/testutil"
)

func TestInvestorStoreCreate(t *testing.T) {
	t.Run("assigns_id_and_defaults_status", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		investors := NewInvestorStore(db)

		investor := &models.Investor{Name: "Warren"}
		testutil.AssertNoError(t, investors.Create(investor))

		if investor.ID == 0 {
			t.Fatal("expected non-zero investor ID")
		}
		if investor.Status != models.InvestorStatusActive {
			t.Errorf("expected default status active, got %s", investor.Status)
		}
	})

	t.Run("explicit_status_kept", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		investors := NewInvestorStore(db)

		investor := &models.Investor{Name: "Warren", Status: models.InvestorStatusSuspended}
		testutil.AssertNoError(t, investors.Create(investor))

		fetched, err := investors.GetByID(investor.ID)
		testutil.AssertNoError(t, err)
		if fetched.Status != models.InvestorStatusSuspended {
			t.Errorf("expected status suspended, got %s", fetched.Status)
		}
	})
}

func TestInvestorStoreGetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		investors := NewInvestorStore(db)
		created := testutil.CreateTestInvestor(t, db)

		fetched, err := investors.GetByID(created.ID)
		testutil.AssertNoError(t, err)
		if fetched.Name != created.Name {
			t.Errorf("expected name %q, got %q", created.Name, fetched.Name)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		investors := NewInvestorStore(db)

		_, err := investors.GetByID(99999)
		testutil.AssertAppError(t, err, "INVESTOR_NOT_FOUND")
	})
}

func TestInvestorStoreSearchByName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	investors := NewInvestorStore(db)

	testutil.AssertNoError(t, investors.Create(&models.Investor{Name: "Alice"}))
	testutil.AssertNoError(t, investors.Create(&models.Investor{Name: "Alice"}))
	testutil.AssertNoError(t, investors.Create(&models.Investor{Name: "Bob"}))

	matches, err := investors.SearchByName("Alice")
	testutil.AssertNoError(t, err)
	if len(matches) != 2 {
		t.Errorf("expected 2 matches, got %d", len(matches))
	}

	none, err := investors.SearchByName("Carol")
	testutil.AssertNoError(t, err)
	if len(none) != 0 {
		t.Errorf("expected no matches, got %d", len(none))
	}
}

func TestInvestorStoreUpdate(t *testing.T) {
	t.Run("update_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		investors := NewInvestorStore(db)
		created := testutil.CreateTestInvestor(t, db)

		testutil.AssertNoError(t, investors.UpdateName(created.ID, "Renamed"))

		fetched, err := investors.GetByID(created.ID)
		testutil.AssertNoError(t, err)
		if fetched.Name != "Renamed" {
			t.Errorf("expected name Renamed, got %q", fetched.Name)
		}
	})

	t.Run("update_status", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		investors := NewInvestorStore(db)
		created := testutil.CreateTestInvestor(t, db)

		testutil.AssertNoError(t, investors.UpdateStatus(created.ID, models.InvestorStatusInactive))

		fetched, err := investors.GetByID(created.ID)
		testutil.AssertNoError(t, err)
		if fetched.Status != models.InvestorStatusInactive {
			t.Errorf("expected status inactive, got %s", fetched.Status)
		}
	})

	t.Run("missing_id_is_error", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		investors := NewInvestorStore(db)

		testutil.AssertAppError(t, investors.UpdateName(99999, "Nobody"), "INVESTOR_NOT_FOUND")
		testutil.AssertAppError(t, investors.UpdateStatus(99999, models.InvestorStatusInactive), "INVESTOR_NOT_FOUND")
	})
}

func TestInvestorStoreDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	investors := NewInvestorStore(db)
	created := testutil.CreateTestInvestor(t, db)

	testutil.AssertNoError(t, investors.Delete(created.ID))

	_, err := investors.GetByID(created.ID)
	testutil.AssertAppError(t, err, "INVESTOR_NOT_FOUND")

	// Deleting again is not an error
	testutil.AssertNoError(t, investors.Delete(created.ID))
}
