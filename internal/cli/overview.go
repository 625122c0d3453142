package cli

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rcliao/onboard/internal/api"
	"github.com/rcliao/onboard/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Fetch sequences, to-dos, resources and employees at once",
		Args:  cobra.NoArgs,
		Run:   runOverview,
	}

	RootCmd.AddCommand(cmd)
}

// Overview is the combined result of the overview command.
type Overview struct {
	Sequences []model.Sequence `json:"sequences"`
	ToDos     []model.ToDo     `json:"to_dos"`
	Resources []model.Resource `json:"resources"`
	Employees []model.Employee `json:"employees"`
}

// fetchOverview runs the four list calls concurrently. The first failure
// cancels the rest.
func fetchOverview(ctx context.Context, c *api.Client) (*Overview, error) {
	var ov Overview
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		ov.Sequences, err = c.Sequences().List(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		ov.ToDos, err = c.ToDos().List(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		ov.Resources, err = c.Resources().List(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		ov.Employees, err = c.Employees().List(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &ov, nil
}

func runOverview(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	c := newClient(ctx, s)
	ov, err := fetchOverview(ctx, c)
	if err != nil {
		exitAPI("overview", err)
	}
	saveSession(ctx, s, c)

	if isJSON() {
		printJSON(ov)
		return
	}

	courses := 0
	for _, r := range ov.Resources {
		if r.Course {
			courses++
		}
	}
	fmt.Println(header("Overview"))
	fmt.Printf("%-11s %s\n", "sequences", paint(styleBlue, humanize.Comma(int64(len(ov.Sequences)))))
	fmt.Printf("%-11s %s\n", "to-dos", paint(styleBlue, humanize.Comma(int64(len(ov.ToDos)))))
	fmt.Printf("%-11s %s %s\n", "resources", paint(styleBlue, humanize.Comma(int64(len(ov.Resources)))),
		paint(styleDim, fmt.Sprintf("(%d courses)", courses)))
	fmt.Printf("%-11s %s\n", "employees", paint(styleBlue, humanize.Comma(int64(len(ov.Employees)))))
}
