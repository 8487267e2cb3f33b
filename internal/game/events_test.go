package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMultiSink(t *testing.T) {
	var got []string
	a := SinkFunc(func(e Event) { got = append(got, "a:"+string(e.Type)) })
	b := SinkFunc(func(e Event) { got = append(got, "b:"+string(e.Type)) })

	MultiSink{a, nil, b}.Publish(Event{Type: EventBetPlaced})

	assert.Equal(t, []string{"a:bet_placed", "b:bet_placed"}, got)
}

func TestChannelSink_DropsWhenFull(t *testing.T) {
	sink := NewChannelSink(1)

	sink.Publish(Event{Type: EventRoundResult})
	sink.Publish(Event{Type: EventResultPopup})

	assert.Len(t, sink.C, 1)
	assert.Equal(t, EventRoundResult, (<-sink.C).Type)
}
