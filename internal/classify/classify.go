// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"sort"
	"strings"

	"github.com/pdiddy/deckdown/internal/deck"
	"github.com/pdiddy/deckdown/pkg/types"
)

// Classifier maps signal-tagged lines to structural roles. It is stateless
// across pages: font scales are producer- and page-local, so every threshold
// is recomputed from the page's own size distribution.
type Classifier struct {
	cfg   types.ClassifyConfig
	rules RuleSet
}

// New returns a classifier with the given tunables and rule sets. Zero
// config fields fall back to defaults.
func New(cfg types.ClassifyConfig, rules RuleSet) *Classifier {
	def := types.DefaultConfig().Classify
	if cfg.MinCodeRun <= 0 {
		cfg.MinCodeRun = def.MinCodeRun
	}
	if cfg.MaxBulletTiers <= 0 {
		cfg.MaxBulletTiers = def.MaxBulletTiers
	}
	if cfg.TitleSizeSlack <= 0 {
		cfg.TitleSizeSlack = def.TitleSizeSlack
	}
	return &Classifier{cfg: cfg, rules: rules}
}

// Rules returns the active rule sets.
func (c *Classifier) Rules() RuleSet { return c.rules }

// sizeKey buckets a size so producer rounding noise does not create
// spurious tiers.
func sizeKey(sizePt float64) int { return int(sizePt + 0.5) }

// tiers holds the page-local size ranking.
type tiers struct {
	// title is the largest size key on the page.
	title int

	// bullet maps a size key strictly between title and median to its
	// one-based tier: 1 = bullet, >=2 = sub-bullet.
	bullet map[int]int

	// code is the smallest size key, valid only when the page has more
	// than one distinct size.
	code int

	// distinct is the number of distinct size keys.
	distinct int
}

// pageTiers ranks the page's distinct dominant sizes. With a single distinct
// size there is no structure signal: no title, no bullet tiers, no code
// threshold.
func (c *Classifier) pageTiers(lines []Line) tiers {
	t := tiers{bullet: map[int]int{}}
	seen := map[int]bool{}
	var keys []int
	var all []int
	for _, l := range lines {
		k := sizeKey(l.Signal.SizePt)
		all = append(all, k)
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	t.distinct = len(keys)
	if len(keys) == 0 {
		return t
	}
	sort.Sort(sort.Reverse(sort.IntSlice(keys)))
	t.title = keys[0]
	t.code = keys[len(keys)-1]

	sort.Ints(all)
	median := all[(len(all)-1)/2]

	// Bullet tiers run from just below the title down to the page median.
	// The median itself is included: slide body text is overwhelmingly
	// list content, and decks with exactly one sub-title size would
	// otherwise have no list structure at all.
	tier := 0
	for _, k := range keys {
		if k >= t.title || k < median {
			continue
		}
		tier++
		if tier > c.cfg.MaxBulletTiers {
			tier = c.cfg.MaxBulletTiers
		}
		t.bullet[k] = tier
	}
	return t
}

// Page classifies one page's lines. The result preserves input order; an
// empty page yields an empty slice. Classification is total: every line
// gets a role, defaulting to body.
func (c *Classifier) Page(pageIndex int, lines []Line) []types.ClassifiedLine {
	if len(lines) == 0 {
		return nil
	}
	t := c.pageTiers(lines)

	roles := make([]types.Role, len(lines))
	titleTaken := false
	for i, l := range lines {
		roles[i] = c.roleFor(l, t, &titleTaken)
	}
	c.markCodeRuns(lines, roles, t)

	out := make([]types.ClassifiedLine, len(lines))
	for i, l := range lines {
		out[i] = types.ClassifiedLine{
			Text:      l.Text,
			Role:      roles[i],
			Signal:    l.Signal,
			Spans:     l.Spans,
			PageIndex: pageIndex,
			LineIndex: i,
		}
	}
	return out
}

// roleFor assigns the pre-code-pass role for one line. Precedence: backend
// structural hints, then the equation family override, then size tiers.
func (c *Classifier) roleFor(l Line, t tiers, titleTaken *bool) types.Role {
	switch l.Hint {
	case deck.HintTitle:
		if !*titleTaken {
			*titleTaken = true
			return types.RoleTitle
		}
		return types.RoleBody
	case deck.HintBullet:
		return types.RoleBullet
	case deck.HintSubBullet:
		return types.RoleSubBullet
	}

	if c.lineIsEquation(l) {
		return types.RoleEquation
	}

	if t.distinct < 2 {
		return types.RoleBody
	}

	k := sizeKey(l.Signal.SizePt)
	if float64(k) >= float64(t.title)-c.cfg.TitleSizeSlack {
		// Identical-size competitors resolve by first occurrence: the
		// first is the title, the rest fall to the next tier down.
		if !*titleTaken {
			*titleTaken = true
			return types.RoleTitle
		}
		return c.demotedTitleRole(t)
	}

	if tier, ok := t.bullet[k]; ok {
		return c.bulletRole(tier, l.Glyph)
	}

	// Glyph markers refine only within bullet tiers; at or below the
	// median they never promote a line out of body.
	return types.RoleBody
}

// demotedTitleRole is the role for a title-sized line after the title slot
// is taken: the highest bullet tier when one exists, body otherwise.
func (c *Classifier) demotedTitleRole(t tiers) types.Role {
	if len(t.bullet) > 0 {
		return types.RoleBullet
	}
	return types.RoleBody
}

// bulletRole maps a bullet tier to a role, letting an explicit dash glyph
// deepen tier 1 and an explicit disc glyph flatten deeper tiers.
func (c *Classifier) bulletRole(tier int, g Glyph) types.Role {
	switch {
	case g == GlyphDash:
		return types.RoleSubBullet
	case g == GlyphBullet:
		return types.RoleBullet
	case tier <= 1:
		return types.RoleBullet
	default:
		return types.RoleSubBullet
	}
}

// lineIsEquation applies the equation family override: it holds when every
// span's family matches the equation family rules, so a stray math glyph
// inside a prose line does not flip the whole line.
func (c *Classifier) lineIsEquation(l Line) bool {
	if len(l.Spans) == 0 {
		return false
	}
	for _, s := range l.Spans {
		if !c.rules.IsEquationFamily(s.Signal.Family) {
			return false
		}
	}
	return true
}

// indentedText is the line's span text with leading indentation intact.
// Line.Text is fully trimmed, which would blind the indentation code rule.
func indentedText(l Line) string {
	var b strings.Builder
	for _, s := range l.Spans {
		b.WriteString(s.Text)
	}
	return strings.TrimRight(b.String(), " \t")
}

// markCodeRuns flips maximal runs of consecutive code-candidate lines to the
// code role. A candidate sits at the page's code size, is not an equation or
// a hinted line, and matches a code token rule. Runs shorter than MinCodeRun
// stay as classified, so an isolated small-font caption is never code.
func (c *Classifier) markCodeRuns(lines []Line, roles []types.Role, t tiers) {
	if t.distinct < 2 {
		return
	}
	candidate := func(i int) bool {
		if roles[i] == types.RoleEquation || lines[i].Hint != deck.HintNone {
			return false
		}
		if sizeKey(lines[i].Signal.SizePt) > t.code {
			return false
		}
		return c.rules.MatchesCodeToken(indentedText(lines[i]))
	}
	i := 0
	for i < len(lines) {
		if !candidate(i) {
			i++
			continue
		}
		j := i + 1
		for j < len(lines) && candidate(j) && sizeKey(lines[j].Signal.SizePt) == sizeKey(lines[i].Signal.SizePt) {
			j++
		}
		if j-i >= c.cfg.MinCodeRun {
			for k := i; k < j; k++ {
				roles[k] = types.RoleCode
			}
		}
		i = j
	}
}
