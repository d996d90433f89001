package denomination

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	byID map[string]*Denomination
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: map[string]*Denomination{}}
}

func (r *fakeRepo) FindByDenominationID(id string) (*Denomination, error) {
	if d, ok := r.byID[id]; ok {
		return d, nil
	}
	return nil, errNotFound
}

var errNotFound = assert.AnError

func (r *fakeRepo) List(familyCensus, familyArda, search string) ([]Denomination, error) {
	return nil, nil
}

func (r *fakeRepo) ListFamilies() ([]string, []string, error) { return nil, nil, nil }

func (r *fakeRepo) ListGroupedByFamily() (map[string][]Denomination, error) { return nil, nil }

func (r *fakeRepo) Upsert(d *Denomination) error {
	copied := *d
	r.byID[d.DenominationID] = &copied
	return nil
}

func (r *fakeRepo) DeleteAll() error {
	r.byID = map[string]*Denomination{}
	return nil
}

func (r *fakeRepo) Count() (int64, error) { return int64(len(r.byID)), nil }

func TestSyncFromAPI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"denomination_id": "D-001", "name": "Northern Baptist Convention", "family_census": "Baptist bodies"},
			{"denomination_id": "D-002", "name": "  Roman Catholic Church ", "family_arda": "Catholic"},
			{"denomination_id": "", "name": "Orphan record"},
			{"denomination_id": "D-003", "name": ""}
		]`))
	}))
	defer server.Close()

	repo := newFakeRepo()
	svc := NewService(repo)

	summary, err := svc.SyncFromAPI(server.URL)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Created)
	assert.Equal(t, 2, summary.Skipped)
	assert.Equal(t, 0, summary.Errors)

	require.NotNil(t, repo.byID["D-002"])
	assert.Equal(t, "Roman Catholic Church", repo.byID["D-002"].Name)
}

func TestSyncFromAPIUpdatesExisting(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"denomination_id": "D-001", "name": "Renamed"}]`))
	}))
	defer server.Close()

	repo := newFakeRepo()
	repo.byID["D-001"] = &Denomination{DenominationID: "D-001", Name: "Old Name"}
	svc := NewService(repo)

	summary, err := svc.SyncFromAPI(server.URL)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Updated)
	assert.Equal(t, "Renamed", repo.byID["D-001"].Name)
}

func TestSyncFromAPIConnectionErrorAborts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := NewService(newFakeRepo()).SyncFromAPI(server.URL)
	require.Error(t, err)
}

func TestSyncFromAPISkipsOverlongFields(t *testing.T) {
	longName := strings.Repeat("x", 256)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"denomination_id": "D-001", "name": "` + longName + `"}]`))
	}))
	defer server.Close()

	repo := newFakeRepo()
	summary, err := NewService(repo).SyncFromAPI(server.URL)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Skipped)
	assert.Empty(t, repo.byID)
}

func TestImportCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "denominations.csv")
	csv := "denomination_id,name,short_name,family_census,family_relec,family_arda\n" +
		"D-001,Northern Baptist Convention,Northern Baptist,Baptist bodies,,Baptist\n" +
		"D-002,Roman Catholic Church,,,Catholic,Catholic\n" +
		",No ID,,,,\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	repo := newFakeRepo()
	summary, err := NewService(repo).ImportCSV(path, 100, false)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Created)
	assert.Equal(t, 1, summary.Skipped)
	require.NotNil(t, repo.byID["D-001"])
	assert.Equal(t, "Baptist bodies", repo.byID["D-001"].FamilyCensus)
}

func TestImportCSVMissingFileFatal(t *testing.T) {
	_, err := NewService(newFakeRepo()).ImportCSV("/does/not/exist.csv", 100, false)
	require.Error(t, err)
}

func TestImportCSVMissingColumnFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("name\nFoo\n"), 0o644))

	_, err := NewService(newFakeRepo()).ImportCSV(path, 100, false)
	require.Error(t, err)
}
