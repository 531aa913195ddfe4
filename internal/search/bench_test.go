package search

import (
	"fmt"
	"testing"
)

func benchFields(n int) []Fields {
	topics := []string{"flight deals", "meal planning", "rent splitting", "chore rotation", "study groups"}
	out := make([]Fields, n)
	for i := range out {
		topic := topics[i%len(topics)]
		out[i] = Fields{
			Title:            fmt.Sprintf("Idea %d about %s", i, topic),
			ProblemStatement: "People waste time on " + topic + " every week",
			RawInputText:     "An app that helps with " + topic + " for busy people",
			Tags:             []string{"app", topic},
		}
	}
	return out
}

func BenchmarkScorer_Score(b *testing.B) {
	s := NewScorer(nil)
	qc := NewContext("flihgt deal alerts")
	fields := benchFields(1)[0]
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Score(qc, fields)
	}
}
