package catalog

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var channelCollator = collate.New(language.English, collate.Loose)

// MergeChannels collapses duplicate raw entities of a single kind that
// refer to the same real-world studio or channel under differing numeric
// ids. Grouping is by NormalizeName; the first-seen entity's trimmed name
// wins, the first non-empty logo wins, and member ids are joined with "|"
// in first-seen order. Output is sorted by name, locale-aware ascending.
func MergeChannels(raw []RawChannel, kind ChannelKind) []ChannelEntity {
	entities := make([]ChannelEntity, 0, len(raw))
	for _, r := range raw {
		id := strconv.Itoa(r.ID)
		e := ChannelEntity{
			ID:       id,
			Name:     strings.TrimSpace(r.Name),
			LogoPath: r.LogoPath,
			Kind:     kind,
		}
		switch kind {
		case ChannelKindNetwork:
			e.NetworkID = id
		case ChannelKindCompany:
			e.CompanyID = id
		}
		entities = append(entities, e)
	}

	merged := mergeByName(entities)
	sortChannels(merged)
	return merged
}

// CombineChannels merges networks and companies that share a normalized
// name into single entities of kind "merged", retaining both source ids.
// Entities without a cross-kind counterpart keep their original kind.
func CombineChannels(networks, companies []ChannelEntity) []ChannelEntity {
	all := make([]ChannelEntity, 0, len(networks)+len(companies))
	all = append(all, networks...)
	all = append(all, companies...)

	merged := mergeByName(all)
	sortChannels(merged)
	return merged
}

// mergeByName groups entities by normalized name, preserving first-seen
// order within each group. Merging an already-merged set is a no-op, so
// the operation is idempotent.
func mergeByName(entities []ChannelEntity) []ChannelEntity {
	seen := make(map[string]int, len(entities))
	result := make([]ChannelEntity, 0, len(entities))

	for _, e := range entities {
		key := NormalizeName(e.Name)
		idx, ok := seen[key]
		if !ok {
			seen[key] = len(result)
			result = append(result, e)
			continue
		}
		result[idx] = combineChannels(result[idx], e)
	}

	return result
}

func combineChannels(first, next ChannelEntity) ChannelEntity {
	first.ID = joinChannelIDs(first.ID, next.ID)
	first.NetworkID = joinChannelIDs(first.NetworkID, next.NetworkID)
	first.CompanyID = joinChannelIDs(first.CompanyID, next.CompanyID)
	if !HasDisplayableImage(first.LogoPath) && HasDisplayableImage(next.LogoPath) {
		first.LogoPath = next.LogoPath
	}
	if first.Kind != next.Kind {
		first.Kind = ChannelKindMerged
	}
	return first
}

func joinChannelIDs(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	return a + "|" + b
}

func sortChannels(entities []ChannelEntity) {
	sort.SliceStable(entities, func(i, j int) bool {
		return channelCollator.CompareString(entities[i].Name, entities[j].Name) < 0
	})
}
