package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/newus-learner-hub/hubgate/catalog"
	"github.com/urfave/cli/v2"
)

var coursesCmd = &cli.Command{
	Name:  "courses",
	Usage: "List and inspect the course catalog.",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "match name or description."},
		&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Usage: "filter by type. Options: Programming, Business, Design."},
	},
	Action: coursesAction,
	Subcommands: []*cli.Command{
		{
			Name:      "show",
			Usage:     "Show a course and related recommendations.",
			ArgsUsage: "<id|slug>",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "recommend", Value: 4, Usage: "number of recommendations."},
			},
			Action: courseShowAction,
		},
	},
}

func coursesAction(ctx *cli.Context) error {
	courses, err := catalog.Default()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(ctx.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tCATEGORY\tDURATION\tURL")
	for _, c := range courses.Search(ctx.String("search"), ctx.String("type")) {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Type, c.CourseType, c.Duration, c.URL())
	}

	return w.Flush()
}

func courseShowAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.ShowSubcommandHelp(ctx)
	}

	courses, err := catalog.Default()
	if err != nil {
		return err
	}

	ref := ctx.Args().First()
	course, ok := resolveCourse(courses, ref)
	if !ok {
		return fmt.Errorf("%w: %s", catalog.ErrCourseNotFound, ref)
	}

	// a slug whose name part is stale still resolves by id
	if _, isSlug := catalog.IDFromSlug(ref); isSlug && !catalog.ValidSlug(ref, course.ID, course.Name) {
		fmt.Fprintf(ctx.App.ErrWriter, "canonical url: %s\n", course.URL())
	}

	type recommendation struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	}

	var recommended []recommendation
	for _, r := range courses.Recommend(course, ctx.Int("recommend")) {
		recommended = append(recommended, recommendation{Name: r.Name, URL: r.URL()})
	}

	return printJSON(ctx.App.Writer, struct {
		catalog.Course
		URL         string           `json:"url"`
		Recommended []recommendation `json:"recommended"`
	}{course, course.URL(), recommended})
}

func init() {
	rootApp.Commands = append(rootApp.Commands, coursesCmd)
}
