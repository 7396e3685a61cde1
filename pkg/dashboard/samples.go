package dashboard

import "sort"

// SamplesFromValues expands a key→value mapping into a canonical batch.
//
// Keys are ordered lexicographically so repeated calls build identical
// batches; the server keys by name, so ordering is not observable beyond
// that. Metadata-carrying submissions use []Sample directly.
func SamplesFromValues(values map[string]float64) []Sample {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	samples := make([]Sample, 0, len(keys))
	for _, k := range keys {
		samples = append(samples, Sample{Key: k, Value: values[k]})
	}
	return samples
}
