package registry

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/starford/raftcheck/internal/apperr"
	"github.com/starford/raftcheck/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "raftcheck-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	for _, table := range []string{"assets", "installed_components"} {
		if err := db.conn.QueryRow(`SELECT count(*) FROM ` + table).Scan(&count); err != nil {
			t.Fatalf("%s table missing: %v", table, err)
		}
	}
}

func TestCreateAndGetAsset(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	created, err := db.CreateAsset(ctx, models.Asset{Name: "Raft 7", Brand: "ZODIAC", Model: "COASTER", SerialNumber: "5103-2019"})
	if err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}
	if created.LaunchType != models.LaunchThrowOver {
		t.Errorf("launch type = %q, want default %q", created.LaunchType, models.LaunchThrowOver)
	}

	got, err := db.GetAsset(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetAsset: %v", err)
	}
	if got.SerialNumber != "5103-2019" || got.Brand != "ZODIAC" {
		t.Errorf("got %+v", got)
	}
}

func TestGetAssetNotFound(t *testing.T) {
	db := testDB(t)
	if _, err := db.GetAsset(context.Background(), "nope"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDuplicateSerial(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	if _, err := db.CreateAsset(ctx, models.Asset{Brand: "RFD", Model: "SEASAVA PLUS", SerialNumber: "S-1"}); err != nil {
		t.Fatal(err)
	}
	_, err := db.CreateAsset(ctx, models.Asset{Brand: "RFD", Model: "SEASAVA PLUS", SerialNumber: "S-1"})
	if !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Errorf("err = %v, want ErrAlreadyExists", err)
	}

	// Empty serials are not unique.
	for range 2 {
		if _, err := db.CreateAsset(ctx, models.Asset{Brand: "RFD", Model: "X"}); err != nil {
			t.Fatalf("empty serial: %v", err)
		}
	}
}

func TestListAssets(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, brand := range []string{"ZODIAC", "RFD", "ZODIAC"} {
		_, err := db.CreateAsset(ctx, models.Asset{Brand: brand, Model: "M", CreatedAt: base.Add(time.Duration(i) * time.Hour)})
		if err != nil {
			t.Fatal(err)
		}
	}

	all, total, err := db.ListAssets(ctx, 0, 0, "")
	if err != nil {
		t.Fatalf("ListAssets: %v", err)
	}
	if total != 3 || len(all) != 3 {
		t.Errorf("total=%d len=%d, want 3/3", total, len(all))
	}

	page, total, err := db.ListAssets(ctx, 1, 1, "ZODIAC")
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || len(page) != 1 {
		t.Fatalf("total=%d len=%d, want 2/1", total, len(page))
	}
	if page[0].Brand != "ZODIAC" {
		t.Errorf("brand = %q", page[0].Brand)
	}
}

func TestComponentsKeepInstallOrder(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	a, err := db.CreateAsset(ctx, models.Asset{Brand: "ZODIAC", Model: "MOR"})
	if err != nil {
		t.Fatal(err)
	}

	at := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	names := []string{"EPIRB", "Flares", "Sea anchor"}
	for _, n := range names {
		c := models.InstalledComponent{AssetID: a.ID, Name: n, Type: "kit", Quantity: 1}
		if n == "EPIRB" {
			c.InstalledAt = &at
		}
		if _, err := db.AddComponent(ctx, c); err != nil {
			t.Fatalf("AddComponent %s: %v", n, err)
		}
	}

	got, err := db.InstalledComponents(ctx, a.ID)
	if err != nil {
		t.Fatalf("InstalledComponents: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, n := range names {
		if got[i].Name != n {
			t.Errorf("component %d = %q, want %q", i, got[i].Name, n)
		}
	}
	if got[0].InstalledAt == nil || !got[0].InstalledAt.Equal(at) {
		t.Errorf("installed_at = %v, want %v", got[0].InstalledAt, at)
	}
	if got[1].InstalledAt != nil {
		t.Error("expected nil installed_at")
	}
	if got[1].State != models.StateNew {
		t.Errorf("state = %q, want default new", got[1].State)
	}
}

func TestAddComponentUnknownAsset(t *testing.T) {
	db := testDB(t)
	_, err := db.AddComponent(context.Background(), models.InstalledComponent{AssetID: "ghost", Name: "x"})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRemoveComponentAndCascade(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	a, _ := db.CreateAsset(ctx, models.Asset{Brand: "DSB", Model: "LR97"})
	c1, _ := db.AddComponent(ctx, models.InstalledComponent{AssetID: a.ID, Name: "Pump"})
	_, _ = db.AddComponent(ctx, models.InstalledComponent{AssetID: a.ID, Name: "Knife"})

	if err := db.RemoveComponent(ctx, a.ID, c1.ID); err != nil {
		t.Fatalf("RemoveComponent: %v", err)
	}
	if err := db.RemoveComponent(ctx, a.ID, c1.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second remove err = %v, want ErrNotFound", err)
	}

	if err := db.DeleteAsset(ctx, a.ID); err != nil {
		t.Fatalf("DeleteAsset: %v", err)
	}
	var n int
	_ = db.conn.QueryRow(`SELECT count(*) FROM installed_components`).Scan(&n)
	if n != 0 {
		t.Errorf("components left after cascade: %d", n)
	}
	if err := db.DeleteAsset(ctx, a.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestGetAssetDriverError(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	mock.ExpectQuery("SELECT (.+) FROM assets WHERE id").
		WithArgs("a1").
		WillReturnError(errors.New("disk I/O error"))

	_, err = New(conn).GetAsset(context.Background(), "a1")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, apperr.ErrNotFound) {
		t.Error("driver failure must not look like a missing asset")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestInstalledComponentsDriverError(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	mock.ExpectQuery("FROM installed_components").
		WithArgs("a1").
		WillReturnError(errors.New("database is locked"))

	if _, err := New(conn).InstalledComponents(context.Background(), "a1"); err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
