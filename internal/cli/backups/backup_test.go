package backups

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitify/internal/cli"
	"github.com/julianstephens/habitify/internal/habits"
	"github.com/julianstephens/habitify/internal/storage/postgres"
	"github.com/julianstephens/habitify/internal/storage/sqlite"
	"github.com/julianstephens/habitify/internal/utils"
)

func setupTestContext(t *testing.T) *cli.Context {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "habitify.db"), 0)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return &cli.Context{
		Store: store,
		Clock: utils.FixedClock{At: time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC)},
	}
}

func habitCount(t *testing.T, ctx *cli.Context) int {
	t.Helper()
	list, err := ctx.Store.ListHabits(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListHabits() error = %v", err)
	}
	return len(list)
}

func TestBackupCreateAndList(t *testing.T) {
	ctx := setupTestContext(t)

	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list with no backups failed: %v", err)
	}
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
}

func TestBackupRestore(t *testing.T) {
	ctx := setupTestContext(t)
	mgr, err := manager(ctx)
	if err != nil {
		t.Fatal(err)
	}
	snapshot, err := mgr.Create(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ctx.Habits().CreateHabit(context.Background(), habits.CreateRequest{UserID: 1, Title: "Meditate"}); err != nil {
		t.Fatal(err)
	}
	if habitCount(t, ctx) != 1 {
		t.Fatal("habit was not created")
	}

	cmd := &BackupRestoreCmd{BackupFile: filepath.Base(snapshot), Yes: true}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}

	reopened := sqlite.NewStore(ctx.Store.GetConfigPath(), 0)
	if err := reopened.Load(); err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	list, err := reopened.ListHabits(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 0 {
		t.Errorf("restored database has %d habits, want 0", len(list))
	}
}

func TestBackupRestoreDeclined(t *testing.T) {
	ctx := setupTestContext(t)
	mgr, _ := manager(ctx)
	snapshot, err := mgr.Create(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ctx.Habits().CreateHabit(context.Background(), habits.CreateRequest{UserID: 1, Title: "Run"}); err != nil {
		t.Fatal(err)
	}

	cmd := &BackupRestoreCmd{BackupFile: snapshot, stdin: strings.NewReader("n\n")}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("declined restore returned error: %v", err)
	}
	if habitCount(t, ctx) != 1 {
		t.Error("database changed after a declined restore")
	}
}

func TestBackupCommandsRejectPostgres(t *testing.T) {
	ctx := &cli.Context{Store: postgres.New("postgres://habitify@localhost/habitify", postgres.Options{})}
	if err := (&BackupCreateCmd{}).Run(ctx); err == nil {
		t.Error("backup create should be refused for PostgreSQL")
	}
	if err := (&BackupListCmd{}).Run(ctx); err == nil {
		t.Error("backup list should be refused for PostgreSQL")
	}
}

func TestResolveBackupPath(t *testing.T) {
	backupDir := t.TempDir()
	inDir := filepath.Join(backupDir, "habitify-20250510-120000.db")
	if err := os.WriteFile(inDir, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	got, err := resolveBackupPath(inDir, backupDir)
	if err != nil || got != inDir {
		t.Errorf("absolute path = %q, %v", got, err)
	}

	got, err = resolveBackupPath("habitify-20250510-120000.db", backupDir)
	if err != nil || got != inDir {
		t.Errorf("file name = %q, %v", got, err)
	}

	if _, err := resolveBackupPath("missing.db", backupDir); err == nil {
		t.Error("expected error for a missing backup")
	}
	if _, err := resolveBackupPath(filepath.Join(backupDir, "missing.db"), backupDir); err == nil {
		t.Error("expected error for a missing absolute path")
	}
}
