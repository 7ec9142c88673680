package cmd

import (
	"fmt"
	"strconv"

	"github.com/newus-learner-hub/hubgate/catalog"
	"github.com/newus-learner-hub/hubgate/client"
	"github.com/urfave/cli/v2"
)

var inquiryCmd = &cli.Command{
	Name:  "inquiry",
	Usage: "Request a course brochure on behalf of a visitor.",
	Description: `The course may be given as a catalog id, a course slug such as
full-stack-web-development-1, or a free-form name. Catalog courses
also send their brochure URL.`,
	Flags: append([]cli.Flag{
		&cli.StringFlag{Name: "name", Usage: "full name of the visitor.", Required: true},
		&cli.StringFlag{Name: "email", Required: true},
		&cli.StringFlag{Name: "phone", Required: true},
		&cli.StringFlag{Name: "course", Aliases: []string{"c"}, Required: true},
	}, clientFlags...),
	Action: inquiryAction,
}

func inquiryAction(ctx *cli.Context) error {
	api, err := newAPI(ctx)
	if err != nil {
		return err
	}

	courses, err := catalog.Default()
	if err != nil {
		return err
	}

	inquiry := client.CourseInquiry{
		FullName: ctx.String("name"),
		Email:    ctx.String("email"),
		Phone:    ctx.String("phone"),
		Course:   ctx.String("course"),
	}

	if course, ok := resolveCourse(courses, inquiry.Course); ok {
		inquiry.Course = course.Name
		inquiry.BrochureURL = course.Brochure
	}

	envelope, err := api.SubmitCourseInquiry(ctx.Context, inquiry)
	if err != nil {
		return userError(err)
	}

	if inquiry.BrochureURL != "" {
		fmt.Fprintf(ctx.App.ErrWriter, "brochure: %s\n", inquiry.BrochureURL)
	}

	return printEnvelope(ctx.App.Writer, envelope)
}

// resolveCourse looks ref up as an id or a slug.
func resolveCourse(courses *catalog.Catalog, ref string) (catalog.Course, bool) {
	if id, err := strconv.Atoi(ref); err == nil {
		course, err := courses.Find(id)
		return course, err == nil
	}

	course, err := courses.FindSlug(ref)
	return course, err == nil
}

func init() {
	rootApp.Commands = append(rootApp.Commands, inquiryCmd)
}
