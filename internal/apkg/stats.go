package apkg

import "sort"

// tagSampleCap bounds the tag sample shown on the preview step.
const tagSampleCap = 50

// BuildStats derives the preview summary from a parsed collection and the
// transformer that consumed it. It is a pure derivation: empty inputs
// produce zero counts, never errors.
func BuildStats(collection *ParsedCollection, transformer *Transformer) ImportStats {
	stats := ImportStats{Label: FallbackLabel}
	if collection == nil {
		return stats
	}
	stats.Label = collection.Label
	stats.CardCount = len(collection.Cards)
	stats.MediaCount = len(collection.MediaIndex)

	tags := make(map[string]struct{})
	for _, note := range collection.Notes {
		for _, tag := range note.Tags {
			tags[tag] = struct{}{}
		}
	}
	stats.UniqueTagCount = len(tags)
	stats.TagSample = sampleTags(tags)

	if transformer != nil {
		clozeNotes, regularNotes, skippedNotes := transformer.Counts()
		stats.ClozeNoteCount = clozeNotes
		stats.RegularNoteCount = regularNotes
		stats.SkippedNoteCount = skippedNotes
		// Note count reflects only notes that resolved and transformed.
		stats.NoteCount = clozeNotes + regularNotes
	}

	return stats
}

func sampleTags(tags map[string]struct{}) []string {
	if len(tags) == 0 {
		return nil
	}
	sample := make([]string, 0, len(tags))
	for tag := range tags {
		sample = append(sample, tag)
	}
	sort.Strings(sample)
	if len(sample) > tagSampleCap {
		sample = sample[:tagSampleCap]
	}
	return sample
}
