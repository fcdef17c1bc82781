package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyagerhq/voyager/travel/model"
)

type fakeCountryLookup struct {
	info  *model.DestinationInfo
	err   error
	calls int
}

func (f *fakeCountryLookup) Lookup(_ context.Context, _, _ string) (*model.DestinationInfo, error) {
	f.calls++
	return f.info, f.err
}

func TestDestinationAgent_LookupThenEnrich(t *testing.T) {
	lookup := &fakeCountryLookup{info: &model.DestinationInfo{
		Country:  "Japan",
		Currency: "Japanese Yen (JPY)",
		Language: "Japanese",
		Timezone: "UTC+09:00",
	}}
	fake := &fakeLLM{content: `{
		"country": "Japan",
		"city": "Tokyo",
		"currency": "Japanese Yen (JPY)",
		"language": "Japanese",
		"timezone": "JST (UTC+9)",
		"visa_info": "Visa-free for 90 days.",
		"useful_tips": ["Carry cash.", "Trains stop around midnight."],
		"emergency_number": "110"
	}`}
	agent := &DestinationAgent{LLM: fake, API: lookup}

	info, err := agent.Run(context.Background(), &model.TripRequest{Destination: "Japan", Origin: "San Francisco"})
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "Visa-free for 90 days.", info.VisaInfo)
	assert.Contains(t, fake.lastMsg, "currency=Japanese Yen (JPY)", "lookup facts feed the enrichment prompt")
}

func TestDestinationAgent_LookupMissFallsBackToLLM(t *testing.T) {
	lookup := &fakeCountryLookup{} // nil info, nil err: no match
	fake := &fakeLLM{content: `{"country": "Japan", "city": "Tokyo", "visa_info": "Visa-free."}`}
	agent := &DestinationAgent{LLM: fake, API: lookup}

	info, err := agent.Run(context.Background(), &model.TripRequest{Destination: "Tokyo", Origin: "San Francisco"})
	require.NoError(t, err)
	assert.Equal(t, "Japan", info.Country)
	assert.Contains(t, fake.lastMsg, "Destination info for Tokyo")
	assert.Equal(t, 1, lookup.calls)
}

func TestDestinationAgent_NoLookupClient(t *testing.T) {
	fake := &fakeLLM{content: `{"country": "France", "city": "Paris"}`}
	agent := &DestinationAgent{LLM: fake}

	info, err := agent.Run(context.Background(), &model.TripRequest{Destination: "Paris", Origin: "NYC"})
	require.NoError(t, err)
	assert.Equal(t, "France", info.Country)
}
