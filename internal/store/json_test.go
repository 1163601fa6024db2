package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lifemarket/lifemarket/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProfile() *domain.UserProfile {
	payment := decimal.NewFromInt(1650)
	premium := decimal.NewFromInt(210)
	birth := time.Date(2001, 3, 15, 0, 0, 0, 0, time.UTC)
	return &domain.UserProfile{
		BirthDate:    &birth,
		FilingStatus: domain.FilingSingle,
		State:        "NY",
		Housing: domain.HousingMetrics{
			HousingKind:           domain.HousingRent,
			HousingPaymentMonthly: &payment,
		},
		HealthInsurance: domain.HealthInsuranceMetrics{
			Payer:                domain.HealthSelfPay,
			HealthPremiumMonthly: &premium,
		},
		Car: domain.CarMetrics{Status: domain.CarPaidOff},
		Expenses: domain.CoreExpenses{
			GroceriesMonthly: decimal.NewFromInt(400),
		},
	}
}

func newTestStore(t *testing.T) *JSONStore {
	t.Helper()
	s, err := NewJSONStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestJSONStoreSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	want := sampleProfile()

	require.NoError(t, s.Save("alice", want))

	got, err := s.Load("alice")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.HousingRent, got.Housing.HousingKind)
	assert.True(t, got.Housing.HousingPaymentMonthly.Equal(decimal.NewFromInt(1650)))
	assert.Equal(t, domain.HealthSelfPay, got.HealthInsurance.Payer)
	assert.True(t, got.Expenses.GroceriesMonthly.Equal(decimal.NewFromInt(400)))
	require.NotNil(t, got.BirthDate)
	assert.True(t, got.BirthDate.Equal(*want.BirthDate))
}

func TestJSONStoreLoadAbsentReturnsNil(t *testing.T) {
	s := newTestStore(t)
	got, err := s.Load("nobody")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestJSONStoreSaveOverwrites(t *testing.T) {
	s := newTestStore(t)
	profile := sampleProfile()
	require.NoError(t, s.Save("alice", profile))

	updated := sampleProfile()
	higher := decimal.NewFromInt(1900)
	updated.Housing.HousingPaymentMonthly = &higher
	require.NoError(t, s.Save("alice", updated))

	got, err := s.Load("alice")
	require.NoError(t, err)
	assert.True(t, got.Housing.HousingPaymentMonthly.Equal(higher))
}

func TestJSONStoreSaveRejectsInvalidProfile(t *testing.T) {
	s := newTestStore(t)
	profile := sampleProfile()
	profile.Housing.HousingPaymentMonthly = nil

	err := s.Save("alice", profile)
	require.Error(t, err)

	// The failed save must not leave anything behind.
	exists, err := s.Exists("alice")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestJSONStoreLoadCorruptData(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(s.dir, "mallory.json"), []byte("{not json"), 0o644))

	_, err := s.Load("mallory")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProfileCorrupt)

	// Structurally valid JSON that fails model validation is corrupt too.
	require.NoError(t, os.WriteFile(filepath.Join(s.dir, "eve.json"),
		[]byte(`{"housing":{"housing_kind":"rent"}}`), 0o644))
	_, err = s.Load("eve")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProfileCorrupt)
}

func TestJSONStoreDeleteMissing(t *testing.T) {
	s := newTestStore(t)
	err := s.Delete("nobody")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestJSONStoreDeleteThenLoad(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save("alice", sampleProfile()))
	require.NoError(t, s.Delete("alice"))

	got, err := s.Load("alice")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestJSONStoreListIDs(t *testing.T) {
	s := newTestStore(t)
	ids, err := s.ListIDs()
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, s.Save("alice", sampleProfile()))
	require.NoError(t, s.Save("bob", sampleProfile()))

	ids, err = s.ListIDs()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "bob"}, ids)
}

func TestJSONStoreExists(t *testing.T) {
	s := newTestStore(t)
	exists, err := s.Exists("alice")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, s.Save("alice", sampleProfile()))
	exists, err = s.Exists("alice")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSanitizeUserID(t *testing.T) {
	for _, id := range []string{"alice", "user-42", "a.b_c"} {
		got, err := SanitizeUserID(id)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}

	for _, id := range []string{"", "../etc/passwd", "a/b", "a b", ".hidden", "nul\x00"} {
		_, err := SanitizeUserID(id)
		assert.Error(t, err, "id %q should be rejected", id)
	}
}

func TestJSONStoreRejectsUnsafeIDs(t *testing.T) {
	s := newTestStore(t)
	assert.Error(t, s.Save("../escape", sampleProfile()))
	_, err := s.Load("../escape")
	assert.Error(t, err)
}
