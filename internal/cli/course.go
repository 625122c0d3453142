package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	course := &cobra.Command{
		Use:   "course",
		Short: "New hire course views",
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a course with its chapter outline and progress",
		Args:  cobra.ExactArgs(1),
		Run:   runCourseShow,
	}
	show.Flags().Int("chapter", 0, "Render this chapter")

	course.AddCommand(show)
	RootCmd.AddCommand(course)
}

func runCourseShow(cmd *cobra.Command, args []string) {
	id := parseID(args[0])
	chapterID, _ := cmd.Flags().GetInt("chapter")

	ctx := cmd.Context()
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	c := newClient(ctx, s)
	view, err := c.NewHire().Course(ctx, id)
	if err != nil {
		exitAPI("get course", err)
	}
	saveSession(ctx, s, c)

	if chapterID > 0 {
		printChapter(view.Organized.Resource.Chapters, chapterID, 0, false)
		return
	}
	if isJSON() {
		printJSON(view)
		return
	}

	course := view.Organized
	printResource(&course.Resource, view.Original.Resource.Chapters, true)
	status := fmt.Sprintf("step %d", course.Step)
	if course.Completed {
		status = "completed"
	}
	fmt.Println(paint(styleGreen, status))
}
