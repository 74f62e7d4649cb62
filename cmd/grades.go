package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hanley0809-ux/climbing-points-app/internal/climb"
	"github.com/hanley0809-ux/climbing-points-app/internal/grades"
)

var gradesCmd = &cobra.Command{
	Use:   "grades [discipline]",
	Short: "Show the configured grade scales, hardest first",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		reg, err := cfg.Registry()
		if err != nil {
			return err
		}

		disciplines := reg.Disciplines()
		if len(args) == 1 {
			d, err := parseDiscipline(reg, args[0])
			if err != nil {
				return err
			}
			disciplines = []climb.Discipline{d}
		}

		for i, d := range disciplines {
			if i > 0 {
				fmt.Println()
			}
			fmt.Println(d)
			venues := reg.Venues(d)
			if len(venues) == 0 {
				s, err := reg.Resolve(d, "")
				if err != nil {
					return err
				}
				printScale("", s)
				continue
			}
			for _, v := range venues {
				s, err := reg.Resolve(d, v)
				if err != nil {
					return err
				}
				printScale(v, s)
			}
			if !reg.RequiresVenue(d) {
				s, err := reg.Resolve(d, grades.DefaultVenue)
				if err != nil {
					return err
				}
				printScale("anywhere else", s)
			}
		}
		return nil
	},
}

func printScale(venue string, s *grades.Scale) {
	prefix := "  "
	if venue != "" {
		prefix = fmt.Sprintf("  %s: ", venue)
	}
	fmt.Println(prefix + strings.Join(s.Labels(), " > "))
}
