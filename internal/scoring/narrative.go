package scoring

import (
	"fmt"

	"cricket-score/internal/domain"
)

// Narrate renders the one-line commentary stored as the state's last event.
func Narrate(d Delivery, wicket, runOut bool) string {
	if wicket {
		how := d.DismissalType
		if how == "" {
			how = string(d.Kind)
		}
		if runOut && d.OutEnd != "" {
			return fmt.Sprintf("Wicket (%s, %s out)", how, d.OutEnd)
		}
		return fmt.Sprintf("Wicket (%s)", how)
	}

	var line string
	switch d.Kind {
	case domain.KindNormal:
		line = fmt.Sprintf("%d run(s)", d.Runs)
	case domain.KindWide:
		line = "Wide +1"
	case domain.KindNoBall:
		line = "No-ball +1"
		if d.Runs > 0 {
			line = fmt.Sprintf("No-ball +1 & %d", d.Runs)
		}
	default:
		line = fmt.Sprintf("%s %d", d.Kind, d.Runs)
	}
	if d.Wicket {
		line += " (free hit, not out)"
	}
	return line
}
