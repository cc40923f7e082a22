package postgres

import (
	"context"
	stderrors "errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitify/internal/constants"
	"github.com/julianstephens/habitify/internal/models"
	"github.com/julianstephens/habitify/internal/storage"
)

// TestStore_Integration runs the shared queries against a real PostgreSQL.
// Example: POSTGRES_TEST_URL="postgres://habitify@localhost:5432/habitify_test?sslmode=disable"
func TestStore_Integration(t *testing.T) {
	connStr := os.Getenv("POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("POSTGRES_TEST_URL not set, skipping PostgreSQL integration test")
	}

	store := New(connStr, Options{TxTimeout: 10 * time.Second})
	if err := store.Init(); err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	now := time.Now().UTC()
	userID := now.UnixNano() // unique per run so reruns do not collide
	habitID := uuid.New().String()
	yesterday := now.AddDate(0, 0, -1).Format(constants.DateFormat)
	today := now.Format(constants.DateFormat)

	t.Run("CreateAndLock", func(t *testing.T) {
		err := store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
			h := models.Habit{
				ID: habitID, UserID: userID, Title: "Integration", Frequency: constants.FrequencyDaily,
				ColorCode: constants.DefaultColorCode, IconName: constants.DefaultIconName,
				ReminderTime: constants.DefaultReminderTime, ReminderEnabled: true,
				Status: constants.StatusTodo, StartDate: yesterday, CreatedAt: now, UpdatedAt: now,
			}
			if err := tx.InsertHabit(ctx, h); err != nil {
				return err
			}
			_, err := tx.EnsureTodoLog(ctx, habitID, userID, yesterday, now)
			return err
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		err = store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
			_, err := tx.LockHabit(ctx, userID, habitID)
			return err
		})
		if err != nil {
			t.Fatalf("LockHabit: %v", err)
		}
	})

	t.Run("Rollover", func(t *testing.T) {
		var failed, opened int64
		err := store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
			if _, err := tx.ResetStragglerStreaks(ctx, yesterday, today, now); err != nil {
				return err
			}
			var err error
			if failed, err = tx.FailStragglerLogs(ctx, yesterday, now); err != nil {
				return err
			}
			if _, err := tx.ReopenHabits(ctx, today, now); err != nil {
				return err
			}
			opened, err = tx.OpenLogs(ctx, today, now)
			return err
		})
		if err != nil {
			t.Fatalf("rollover: %v", err)
		}
		if failed < 1 || opened < 1 {
			t.Errorf("failed=%d opened=%d, want both >= 1", failed, opened)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
			return tx.DeleteHabit(ctx, userID, habitID)
		})
		if err != nil {
			t.Fatalf("DeleteHabit: %v", err)
		}
		if _, err := store.GetHabit(ctx, userID, habitID); !stderrors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetHabit after delete err = %v", err)
		}
	})
}
