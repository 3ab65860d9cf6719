package trafficgen

import "github.com/sarchlab/dramsweep/timing"

// A Schedule is a finite, ordered list of directives whose last directive is
// a StopDirective. Schedules are immutable.
type Schedule struct {
	directives []Directive
}

func newSchedule(phases []GenerateDirective, exitCode int) Schedule {
	directives := make([]Directive, 0, len(phases)+1)
	for _, p := range phases {
		directives = append(directives, p)
	}

	directives = append(directives, StopDirective{ExitCode: exitCode})

	return Schedule{directives: directives}
}

// Len returns the number of directives, including the final stop.
func (s Schedule) Len() int {
	return len(s.directives)
}

// At returns the i-th directive.
func (s Schedule) At(i int) Directive {
	return s.directives[i]
}

// Directives returns a copy of all the directives.
func (s Schedule) Directives() []Directive {
	return append([]Directive(nil), s.directives...)
}

// Phases returns the generate directives, in order.
func (s Schedule) Phases() []GenerateDirective {
	phases := make([]GenerateDirective, 0, len(s.directives))

	for _, d := range s.directives {
		if g, ok := d.(GenerateDirective); ok {
			phases = append(phases, g)
		}
	}

	return phases
}

// ExitCode returns the exit code of the final stop directive.
func (s Schedule) ExitCode() int {
	if len(s.directives) == 0 {
		return 0
	}

	return s.directives[len(s.directives)-1].(StopDirective).ExitCode
}

// TotalDuration returns the summed duration of all the phases.
func (s Schedule) TotalDuration() timing.Tick {
	total := timing.Tick(0)
	for _, p := range s.Phases() {
		total += p.Duration
	}

	return total
}
