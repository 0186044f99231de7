package scoring

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"cricket-score/internal/domain"
)

func TestNarrate(t *testing.T) {
	cases := []struct {
		d      Delivery
		wicket bool
	}{
		{d: runs(0)},
		{d: runs(4)},
		{d: Delivery{Kind: domain.KindWide}},
		{d: Delivery{Kind: domain.KindNoBall}},
		{d: Delivery{Kind: domain.KindNoBall, Runs: 2}},
		{d: Delivery{Kind: domain.KindBye, Runs: 2}},
		{d: Delivery{Kind: domain.KindLegBye, Runs: 1}},
		{d: Delivery{Kind: domain.KindNormal, Wicket: true, DismissalType: "caught"}, wicket: true},
		{d: Delivery{Kind: domain.KindNormal, Wicket: true}, wicket: true},
		{d: Delivery{Kind: domain.KindNormal, Wicket: true, DismissalType: "runout", OutEnd: domain.EndNonStriker}, wicket: true},
		{d: Delivery{Kind: domain.KindNormal, Wicket: true, DismissalType: "runout"}, wicket: true},
		{d: Delivery{Kind: domain.KindNormal, Runs: 1, Wicket: true, DismissalType: "bowled"}},
	}

	var b strings.Builder
	for _, c := range cases {
		b.WriteString(Narrate(c.d, c.wicket, IsRunOut(c.d.DismissalType)))
		b.WriteByte('\n')
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "narrative", []byte(b.String()))
}
