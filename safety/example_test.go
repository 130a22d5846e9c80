package safety_test

import (
	"context"
	"fmt"

	"github.com/jonwraymond/drugsafety/fda"
	"github.com/jonwraymond/drugsafety/safety"
)

func ExampleScore() {
	raw := &fda.RawSafetyData{
		TotalEvents:   18000,
		TotalRecalls:  1,
		SeriousCount:  10,
		SampledEvents: 50,
	}

	fmt.Println(safety.Score(raw))
	// Output:
	// 70
}

func ExampleSynthesizer_Synthesize() {
	// Without a generator every summary uses the deterministic template.
	syn := safety.NewSynthesizer(safety.SynthesizerConfig{})

	profile, err := syn.Synthesize(context.Background(), &fda.RawSafetyData{
		DrugName:    "Aspirin",
		TotalEvents: 9000,
		ReactionCounts: []fda.ReactionCount{
			{Reaction: "Nausea", Count: 4},
		},
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(profile.SafetyScore)
	fmt.Println(profile.Summary)
	fmt.Println(profile.TopConcern)
	// Output:
	// 91
	// Aspirin has 9000 reported adverse events. Consult healthcare provider for personalized advice.
	// Watch for Nausea
}
