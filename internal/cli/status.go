package cli

import (
	"context"
	"fmt"
)

// StatusCmd marks a habit completed or failed for today without going
// through the API
type StatusCmd struct {
	User   int64  `help:"Owner of the habit." required:""`
	Habit  string `help:"Habit ID." required:""`
	Status string `help:"completed or failed." required:"" enum:"completed,failed"`
}

func (c *StatusCmd) Run(ctx *Context) error {
	res, err := ctx.Habits().SetHabitStatus(context.Background(), c.User, c.Habit, c.Status, "")
	if err != nil {
		return err
	}

	fmt.Println(OK("%s marked as %s for %s", res.Habit.Title, res.UpdatedStatus, res.Today))
	fmt.Println(KeyValue("Current streak", res.Habit.CurrentStreak))
	fmt.Println(KeyValue("Longest streak", res.Habit.LongestStreak))
	return nil
}
