package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/streaks/internal/constants"
	"github.com/julianstephens/streaks/internal/streaks"
)

type AddCmd struct {
	Title string `arg:"" help:"Streak title."`
}

func (c *AddCmd) Run(ctx *Context) error {
	return ctx.Modify(func(col *streaks.Collection) error {
		if col.FindByTitle(c.Title) != nil {
			return fmt.Errorf("streak %q already exists", strings.TrimSpace(c.Title))
		}
		row, ok := col.AddStreak(c.Title)
		if !ok {
			return errors.New("title must not be empty")
		}
		ctx.printf("Added streak: %s\n", row.Title())
		return nil
	})
}

type ListCmd struct{}

func (c *ListCmd) Run(ctx *Context) error {
	col, err := ctx.Load()
	if err != nil {
		return err
	}
	if col.Len() == 0 {
		ctx.printf("No streaks found.\n")
		return nil
	}

	for i, row := range col.Rows() {
		days := row.Days()
		last := "never"
		if len(days) > 0 {
			last = days[len(days)-1].Date.Format(constants.DateFormat)
		}
		ctx.printf("%2d. %-24s %4d days  last %s\n", i+1, row.Title(), len(days), last)
	}
	return nil
}

type MarkCmd struct {
	Title string `arg:"" help:"Streak title."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
	Delta int    `help:"Amount to add to the day's count; negative to undo." default:"1"`
}

func (c *MarkCmd) Run(ctx *Context) error {
	day, err := ctx.parseDate(c.Date)
	if err != nil {
		return err
	}
	return ctx.Modify(func(col *streaks.Collection) error {
		row, err := find(col, c.Title)
		if err != nil {
			return err
		}
		row.Adjust(day, c.Delta)
		ctx.printf("%s on %s: %d\n", row.Title(), day, row.Count(day))
		return nil
	})
}

type RenameCmd struct {
	Title    string `arg:"" help:"Current title."`
	NewTitle string `arg:"" help:"New title."`
}

func (c *RenameCmd) Run(ctx *Context) error {
	if strings.TrimSpace(c.NewTitle) == "" {
		return errors.New("title must not be empty")
	}
	return ctx.Modify(func(col *streaks.Collection) error {
		row, err := find(col, c.Title)
		if err != nil {
			return err
		}
		if other := col.FindByTitle(c.NewTitle); other != nil && other != row {
			return fmt.Errorf("streak %q already exists", other.Title())
		}
		old := row.Title()
		changed, err := col.Rename(row, c.NewTitle)
		if err != nil {
			return err
		}
		if !changed {
			ctx.printf("Streak %q unchanged\n", old)
			return nil
		}
		ctx.printf("Renamed %q to %q\n", old, row.Title())
		return nil
	})
}

type DeleteCmd struct {
	Title string `arg:"" help:"Streak title."`
	Yes   bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *DeleteCmd) Run(ctx *Context) error {
	return ctx.Modify(func(col *streaks.Collection) error {
		row, err := find(col, c.Title)
		if err != nil {
			return err
		}
		if err := col.BeginRemove(row); err != nil {
			return err
		}
		if !c.Yes && !ctx.confirm(fmt.Sprintf("Delete %q and its %d recorded days?", row.Title(), len(row.Days()))) {
			ctx.printf("Cancelled\n")
			return col.CancelRemove(row)
		}
		if err := col.Remove(row); err != nil {
			return err
		}
		ctx.printf("Deleted streak: %s\n", row.Title())
		return nil
	})
}

type MoveCmd struct {
	Direction string `arg:"" enum:"up,down" help:"up or down."`
	Title     string `arg:"" help:"Streak title."`
}

func (c *MoveCmd) Run(ctx *Context) error {
	return ctx.Modify(func(col *streaks.Collection) error {
		row, err := find(col, c.Title)
		if err != nil {
			return err
		}
		if c.Direction == "up" {
			err = col.MoveUp(row)
		} else {
			err = col.MoveDown(row)
		}
		if err != nil {
			return err
		}
		i, err := col.IndexOf(row)
		if err != nil {
			return err
		}
		ctx.printf("%s is now at position %d of %d\n", row.Title(), i+1, col.Len())
		return nil
	})
}
