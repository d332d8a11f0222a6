package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edgarogh/mdj/internal/cli"
	"github.com/edgarogh/mdj/internal/day"
	"github.com/edgarogh/mdj/internal/recurrence"
	"github.com/edgarogh/mdj/internal/store"
)

func newCoursesCommand() *cobra.Command {
	coursesCommand := &cobra.Command{
		Use:   "courses",
		Short: "Manage courses",
	}

	coursesCommand.AddCommand(newCoursesListCommand())
	coursesCommand.AddCommand(newCoursesCreateCommand())
	coursesCommand.AddCommand(newCoursesEditCommand())
	coursesCommand.AddCommand(newCoursesArchiveCommand())
	coursesCommand.AddCommand(newCoursesDeleteCommand())
	coursesCommand.AddCommand(newCoursesRestoreCommand())

	return coursesCommand
}

func newCoursesListCommand() *cobra.Command {
	var format string
	var archived bool
	command := &cobra.Command{
		Use:   "list",
		Short: "List active or archived courses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			renderer, err := cli.NewRenderer(format, a.cfg.Display.Color)
			if err != nil {
				_ = a.close()
				return err
			}
			a.root.Wait()

			if archived {
				courses, err := a.root.Courses().FetchArchived(cmd.Context())
				if err != nil {
					_ = a.close()
					return fmt.Errorf("FetchArchived() > %w", err)
				}
				if err := renderer.RenderArchived(cmd.OutOrStdout(), courses); err != nil {
					_ = a.close()
					return fmt.Errorf("renderer.RenderArchived() > %w", err)
				}
				return a.close()
			}

			if err := renderer.RenderCourses(cmd.OutOrStdout(), a.root.Courses().Courses()); err != nil {
				_ = a.close()
				return fmt.Errorf("renderer.RenderCourses() > %w", err)
			}
			return a.close()
		},
	}
	command.Flags().StringVar(&format, "format", "text", "Output format. Options: text, yaml")
	command.Flags().BoolVar(&archived, "archived", false, "List archived courses instead")
	return command
}

// defaultEnd leaves room for every offset of the recurrence.
func defaultEnd(j0 day.Day, rec string) day.Day {
	offsets := recurrence.ParseOrFirst(rec)
	return j0.AddDays(offsets[len(offsets)-1])
}

func newCoursesCreateCommand() *cobra.Command {
	var description, rec string
	var j0, jEnd DayFlag
	command := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			a.root.Wait()

			spec := store.CourseSpec{
				Name:        args[0],
				Description: description,
				J0:          j0.or(a.root.Today()),
				Recurrence:  firstNonEmpty(rec, a.root.DefaultRecurrence()),
			}
			spec.JEnd = jEnd.or(defaultEnd(spec.J0, spec.Recurrence))

			course, err := a.root.Courses().CreateCourse(spec)
			if err != nil {
				_ = a.close()
				return fmt.Errorf("CreateCourse() > %w", err)
			}
			a.root.Wait()
			if course.ID() != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s)\n", course.Name(), course.ID())
			}
			return a.close()
		},
	}
	flags := command.Flags()
	flags.StringVar(&description, "description", "", "Course description")
	flags.StringVar(&rec, "recurrence", "", "Comma separated day offsets (default from the account templates)")
	flags.Var(&j0, "j0", "First day (default today)")
	flags.Var(&jEnd, "j-end", "Last day (default j0 plus the last offset)")
	return command
}

func newCoursesEditCommand() *cobra.Command {
	var name, description, rec string
	var j0, jEnd DayFlag
	command := &cobra.Command{
		Use:   "edit <course id>",
		Short: "Edit the name, description or schedule of a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			a.root.Wait()

			course := a.root.Courses().Find(args[0])
			if course == nil {
				_ = a.close()
				return fmt.Errorf("no course with id %s", args[0])
			}

			flags := cmd.Flags()
			if flags.Changed("name") || flags.Changed("description") {
				spec := store.CourseSpec{
					Name:        course.Name(),
					Description: course.Description(),
					J0:          course.J0(),
					JEnd:        course.JEnd(),
					Recurrence:  course.Recurrence(),
				}
				if flags.Changed("name") {
					spec.Name = name
				}
				if flags.Changed("description") {
					spec.Description = description
				}
				if err := course.Update(spec); err != nil {
					_ = a.close()
					return fmt.Errorf("course.Update() > %w", err)
				}
			}
			if flags.Changed("recurrence") || flags.Changed("j0") || flags.Changed("j-end") {
				if err := course.UpdateRecurrence(firstNonEmpty(rec, course.Recurrence()), j0.or(course.J0()), jEnd.or(course.JEnd())); err != nil {
					_ = a.close()
					return fmt.Errorf("course.UpdateRecurrence() > %w", err)
				}
			}
			return a.close()
		},
	}
	flags := command.Flags()
	flags.StringVar(&name, "name", "", "New name")
	flags.StringVar(&description, "description", "", "New description")
	flags.StringVar(&rec, "recurrence", "", "New comma separated day offsets")
	flags.Var(&j0, "j0", "New first day")
	flags.Var(&jEnd, "j-end", "New last day")
	return command
}

// withCourse runs fn on the loaded course with the given id.
func withCourse(cmd *cobra.Command, id string, fn func(course *store.Course)) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	a.root.Wait()

	course := a.root.Courses().Find(id)
	if course == nil {
		_ = a.close()
		return fmt.Errorf("no course with id %s", id)
	}
	fn(course)
	return a.close()
}

func newCoursesArchiveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "archive <course id>",
		Short: "Archive a course, hiding its events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCourse(cmd, args[0], func(course *store.Course) {
				course.Archive()
			})
		},
	}
}

func newCoursesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <course id>",
		Short: "Delete a course and its markings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCourse(cmd, args[0], func(course *store.Course) {
				course.Delete()
			})
		},
	}
}

func newCoursesRestoreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <course id>",
		Short: "Restore an archived course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			a.root.Wait()
			a.root.Courses().RestoreCourse(args[0])
			return a.close()
		},
	}
}
