package crm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryPatientStore struct {
	patients map[int64]map[string]PersonRecord
	calls    int
	failOn   string
}

func newMemoryPatientStore() *memoryPatientStore {
	return &memoryPatientStore{patients: map[int64]map[string]PersonRecord{}}
}

func (s *memoryPatientStore) UpsertByPipedriveID(clinicaID int64, record PersonRecord) error {
	s.calls++
	if s.failOn != "" && record.ID == s.failOn {
		return errors.New("store unavailable")
	}
	if s.patients[clinicaID] == nil {
		s.patients[clinicaID] = map[string]PersonRecord{}
	}
	s.patients[clinicaID][record.ID] = record
	return nil
}

func TestReconcileUpsertsAllRecords(t *testing.T) {
	store := newMemoryPatientStore()
	records := []PersonRecord{
		{ID: "1", Name: "Ana", Email: "ana@example.com"},
		{ID: "2", Name: "Bruno"},
	}

	applied, err := Reconcile(store, 10, records)
	require.NoError(t, err)
	assert.Equal(t, 2, applied)
	assert.Len(t, store.patients[10], 2)
	assert.Equal(t, "Ana", store.patients[10]["1"].Name)
}

func TestReconcileIsIdempotent(t *testing.T) {
	store := newMemoryPatientStore()
	records := []PersonRecord{{ID: "1", Name: "Ana"}}

	_, err := Reconcile(store, 10, records)
	require.NoError(t, err)

	records[0].Name = "Ana Paula"
	applied, err := Reconcile(store, 10, records)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)
	assert.Len(t, store.patients[10], 1)
	assert.Equal(t, "Ana Paula", store.patients[10]["1"].Name)
}

func TestReconcileStopsOnFirstFailure(t *testing.T) {
	store := newMemoryPatientStore()
	store.failOn = "2"
	records := []PersonRecord{
		{ID: "1", Name: "Ana"},
		{ID: "2", Name: "Bruno"},
		{ID: "3", Name: "Clara"},
	}

	applied, err := Reconcile(store, 10, records)
	require.Error(t, err)
	assert.Equal(t, 1, applied)
	assert.Equal(t, 2, store.calls)
	assert.Len(t, store.patients[10], 1)
}

func TestReconcileScopesByClinic(t *testing.T) {
	store := newMemoryPatientStore()
	_, err := Reconcile(store, 10, []PersonRecord{{ID: "1", Name: "Ana"}})
	require.NoError(t, err)
	_, err = Reconcile(store, 20, []PersonRecord{{ID: "1", Name: "Outra Ana"}})
	require.NoError(t, err)

	assert.Equal(t, "Ana", store.patients[10]["1"].Name)
	assert.Equal(t, "Outra Ana", store.patients[20]["1"].Name)
}
