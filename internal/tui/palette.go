package tui

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/nbtree/nbtree/internal/actions"
	"github.com/nbtree/nbtree/internal/keymap"
)

// paletteItem is one runnable action in the command palette.
type paletteItem struct {
	name string
	help string
	icon string
	keys string
}

// paletteState is the command palette: a filter input over every registered
// action, ranked by fuzzy match quality.
type paletteState struct {
	input   string
	index   int
	offset  int
	all     []paletteItem
	matches []paletteItem
}

// reset rebuilds the action list and clears the filter. Called every time
// the palette opens so late registrations and rebindings show up.
func (p *paletteState) reset(reg *actions.Registry, keys *keymap.Registry) {
	p.input = ""
	p.index = 0
	p.offset = 0
	p.all = p.all[:0]
	for _, entry := range reg.Entries() {
		p.all = append(p.all, paletteItem{
			name: entry.Name,
			help: entry.Help,
			icon: entry.Icon,
			keys: keys.GetBindingString(keymap.ContextList, entry.Name),
		})
	}
	p.refilter()
}

// refilter recomputes matches for the current input. Fuzzy ranking first;
// when it finds nothing, a substring scan over names and help texts.
func (p *paletteState) refilter() {
	query := strings.TrimSpace(p.input)
	if query == "" {
		p.matches = append(p.matches[:0], p.all...)
		p.clampIndex()
		return
	}

	names := make([]string, len(p.all))
	for i, item := range p.all {
		names[i] = item.name
	}

	ranks := fuzzy.RankFindNormalizedFold(query, names)
	if len(ranks) > 0 {
		sort.SliceStable(ranks, func(i, j int) bool {
			if ranks[i].Distance != ranks[j].Distance {
				return ranks[i].Distance < ranks[j].Distance
			}
			return ranks[i].OriginalIndex < ranks[j].OriginalIndex
		})
		p.matches = p.matches[:0]
		for _, rank := range ranks {
			p.matches = append(p.matches, p.all[rank.OriginalIndex])
		}
		p.clampIndex()
		return
	}

	lower := strings.ToLower(query)
	p.matches = p.matches[:0]
	for _, item := range p.all {
		if strings.Contains(strings.ToLower(item.name), lower) ||
			strings.Contains(strings.ToLower(item.help), lower) {
			p.matches = append(p.matches, item)
		}
	}
	p.clampIndex()
}

// moveBy shifts the selection through the matches.
func (p *paletteState) moveBy(delta int) {
	p.index += delta
	p.clampIndex()
}

func (p *paletteState) clampIndex() {
	if len(p.matches) == 0 {
		p.index = 0
		p.offset = 0
		return
	}
	if p.index < 0 {
		p.index = 0
	}
	if p.index >= len(p.matches) {
		p.index = len(p.matches) - 1
	}
}

// selectedItem returns the highlighted match.
func (p *paletteState) selectedItem() (paletteItem, bool) {
	if p.index < 0 || p.index >= len(p.matches) {
		return paletteItem{}, false
	}
	return p.matches[p.index], true
}

// window returns the visible slice bounds for rows result lines, scrolling
// the window to keep the selection inside it.
func (p *paletteState) window(rows int) (int, int) {
	if rows < 1 {
		rows = 1
	}
	if p.index < p.offset {
		p.offset = p.index
	}
	if p.index >= p.offset+rows {
		p.offset = p.index - rows + 1
	}
	if p.offset < 0 {
		p.offset = 0
	}
	end := p.offset + rows
	if end > len(p.matches) {
		end = len(p.matches)
	}
	return p.offset, end
}
