package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/streaks/internal/streaks"
)

const logNameWidth = 20

type LogCmd struct {
	Days   int    `help:"Number of days to show." default:"14"`
	End    string `help:"Last day to show in YYYY-MM-DD format (default: today)." default:""`
	Streak string `help:"Show log for specific streak only."`
}

func (c *LogCmd) Run(ctx *Context) error {
	if c.Days < 1 {
		return fmt.Errorf("--days must be at least 1, got %d", c.Days)
	}
	end, err := ctx.parseDate(c.End)
	if err != nil {
		return err
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	data, err := ctx.Store.Load()
	if err != nil {
		return err
	}
	col := streaks.NewCollection(streaks.NewWindow(end, c.Days))
	if err := col.Replace(data); err != nil {
		return err
	}

	rows := col.Rows()
	if c.Streak != "" {
		row, err := find(col, c.Streak)
		if err != nil {
			return err
		}
		rows = []*streaks.Row{row}
	}
	if len(rows) == 0 {
		ctx.printf("No streaks found.\n")
		return nil
	}

	ctx.printf("Streak log (%d days ending %s):\n\n", c.Days, end)

	ctx.printf("%-*s", logNameWidth, "Streak")
	for _, day := range col.Header().Dates() {
		ctx.printf(" %5s", day.Format("01/02"))
	}
	ctx.printf("\n%s\n", strings.Repeat("-", logNameWidth+6*c.Days))

	for _, row := range rows {
		ctx.printf("%s", padName(row.Title(), logNameWidth))
		for _, cell := range row.Cells() {
			ctx.printf("   %s  ", marker(cell.Count()))
		}
		ctx.printf("\n")
	}

	ctx.printf("\nLegend: . = none, 1-9 = count, + = more than 9\n")
	return nil
}

// padName truncates or pads name to exactly width runes.
func padName(name string, width int) string {
	runes := []rune(name)
	if len(runes) > width {
		return string(runes[:width-3]) + "..."
	}
	return name + strings.Repeat(" ", width-len(runes))
}

func marker(count int) string {
	switch {
	case count <= 0:
		return "."
	case count > 9:
		return "+"
	default:
		return fmt.Sprint(count)
	}
}

