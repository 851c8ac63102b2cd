// Package binding associates renderer mesh parts with dataset sections.
//
// Mesh names are frequently lost or rewritten by export pipelines while part
// ordering survives, so positional matching is the primary strategy and the
// name heuristics are an explicit, ordered fallback. Every bound entry keeps
// the strategy that produced it so a binding can be audited after the fact.
package binding

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/neuroviz/internal/dataset"
)

// MeshHandle identifies a renderable part. The renderer owns the underlying
// object; the core only keeps this pair for the lifetime of a binding.
type MeshHandle struct {
	ID   string
	Name string
}

// Strategy tags how an entry was matched.
type Strategy int

const (
	Positional Strategy = iota
	ExactName
	SubstringName
	NumericSuffix
)

func (s Strategy) String() string {
	switch s {
	case Positional:
		return "positional"
	case ExactName:
		return "exact-name"
	case SubstringName:
		return "substring-name"
	case NumericSuffix:
		return "numeric-suffix"
	}
	return "unknown"
}

// Entry is one mesh→section association.
type Entry struct {
	Mesh         MeshHandle
	SectionIndex int
	Strategy     Strategy
}

// Binding is the resolved association table. It is read-only: callers rebind
// instead of editing entries in place.
type Binding struct {
	entries           []Entry
	unmatchedMeshes   int
	unmatchedSections int
}

// Entries returns the bound associations in mesh order.
func (b *Binding) Entries() []Entry { return b.entries }

// Len reports how many meshes were bound.
func (b *Binding) Len() int { return len(b.entries) }

// UnmatchedMeshes counts meshes left without a section.
func (b *Binding) UnmatchedMeshes() int { return b.unmatchedMeshes }

// UnmatchedSections counts sections left without a mesh.
func (b *Binding) UnmatchedSections() int { return b.unmatchedSections }

// Warnings is the total unmatched count; non-zero bindings still play.
func (b *Binding) Warnings() int { return b.unmatchedMeshes + b.unmatchedSections }

var trailingDigits = regexp.MustCompile(`(\d+)\s*$`)

// Bind associates meshes with dataset sections. When the counts match,
// meshes sorted by name are paired with sections sorted by id, rank by rank.
// Otherwise each mesh tries, in order: exact name equality, substring
// containment in either direction, and a trailing-number-equals-section-id
// match. Leftovers on either side are reported, not rejected.
func Bind(meshes []MeshHandle, ds *dataset.Dataset) *Binding {
	if ds == nil || len(meshes) == 0 {
		return &Binding{unmatchedMeshes: len(meshes), unmatchedSections: sectionCount(ds)}
	}
	if len(meshes) == len(ds.Sections) {
		return bindPositional(meshes, ds)
	}
	return bindByName(meshes, ds)
}

func sectionCount(ds *dataset.Dataset) int {
	if ds == nil {
		return 0
	}
	return len(ds.Sections)
}

func bindPositional(meshes []MeshHandle, ds *dataset.Dataset) *Binding {
	sortedMeshes := append([]MeshHandle(nil), meshes...)
	sort.Slice(sortedMeshes, func(i, j int) bool { return sortedMeshes[i].Name < sortedMeshes[j].Name })

	order := make([]int, len(ds.Sections))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return ds.Sections[order[i]].ID < ds.Sections[order[j]].ID })

	entries := make([]Entry, len(sortedMeshes))
	for rank, mesh := range sortedMeshes {
		entries[rank] = Entry{Mesh: mesh, SectionIndex: order[rank], Strategy: Positional}
	}
	return &Binding{entries: entries}
}

func bindByName(meshes []MeshHandle, ds *dataset.Dataset) *Binding {
	b := &Binding{}
	taken := make([]bool, len(ds.Sections))

	for _, mesh := range meshes {
		idx, strat := matchByName(mesh, ds, taken)
		if idx < 0 {
			b.unmatchedMeshes++
			continue
		}
		taken[idx] = true
		b.entries = append(b.entries, Entry{Mesh: mesh, SectionIndex: idx, Strategy: strat})
	}
	for _, t := range taken {
		if !t {
			b.unmatchedSections++
		}
	}
	return b
}

// matchByName tries each heuristic over all free sections before moving on
// to the next heuristic, so a weak match never shadows a strong one.
func matchByName(mesh MeshHandle, ds *dataset.Dataset, taken []bool) (int, Strategy) {
	meshName := strings.ToLower(strings.TrimSpace(mesh.Name))

	for i := range ds.Sections {
		if taken[i] {
			continue
		}
		if meshName != "" && meshName == strings.ToLower(ds.Sections[i].Name) {
			return i, ExactName
		}
	}
	for i := range ds.Sections {
		if taken[i] {
			continue
		}
		secName := strings.ToLower(ds.Sections[i].Name)
		if meshName == "" || secName == "" {
			continue
		}
		if strings.Contains(meshName, secName) || strings.Contains(secName, meshName) {
			return i, SubstringName
		}
	}
	if m := trailingDigits.FindStringSubmatch(meshName); m != nil {
		if id, err := strconv.Atoi(m[1]); err == nil {
			for i := range ds.Sections {
				if !taken[i] && ds.Sections[i].ID == id {
					return i, NumericSuffix
				}
			}
		}
	}
	return -1, Positional
}
