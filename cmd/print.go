package cmd

import (
	"fmt"
	"strings"

	"github.com/hanley0809-ux/climbing-points-app/internal/climb"
	"github.com/hanley0809-ux/climbing-points-app/internal/stats"
)

func printClimbs(climbs []climb.Entry) {
	fmt.Printf("%3s  %-19s  %-16s  %-8s  %s\n", "#", "Timestamp", "Discipline", "Grade", "Area")
	fmt.Println(strings.Repeat("─", 64))
	for i, c := range climbs {
		fmt.Printf("%3d  %-19s  %-16s  %-8s  %s\n",
			i+1, climb.FormatTimestamp(c.Timestamp), c.Discipline, c.Grade, c.Area)
	}
}

func printSummary(sum stats.Summary) {
	fmt.Printf("Climbs: %d\n", sum.Count)
	for _, b := range sum.Best {
		fmt.Printf("Hardest %s: %s\n", scaleLabel(b), b.Label())
	}
}

// scaleLabel names a Best by discipline, adding the scale when they differ.
func scaleLabel(b stats.Best) string {
	if b.Scale == "" || b.Scale == string(b.Discipline) {
		return string(b.Discipline)
	}
	return fmt.Sprintf("%s (%s)", b.Discipline, b.Scale)
}

func printPyramid(p stats.Pyramid) {
	const barWidth = 30
	peak := p.Max()
	for _, r := range p.Rows {
		n := 0
		if peak > 0 {
			n = barWidth * r.Count / peak
		}
		if r.Count > 0 && n == 0 {
			n = 1
		}
		fmt.Printf("  %-6s %s %d\n", r.Grade, strings.Repeat("█", n), r.Count)
	}
}
