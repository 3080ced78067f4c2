package nowiki

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for conversion events.
var (
	SignalConverterCreated   = capitan.NewSignal("nowiki.converter.created", "Converter instantiated")
	SignalToHTMLComplete     = capitan.NewSignal("nowiki.tohtml.complete", "Wikitext to HTML conversion finished")
	SignalToWikitextComplete = capitan.NewSignal("nowiki.towikitext.complete", "HTML to wikitext conversion finished")
	SignalRoundTripComplete  = capitan.NewSignal("nowiki.roundtrip.complete", "Round trip finished")
)

// Keys for typed event data.
var (
	KeyTitle       = capitan.NewStringKey("title")
	KeyPassID      = capitan.NewStringKey("pass_id")
	KeySize        = capitan.NewIntKey("size")
	KeyRegions     = capitan.NewIntKey("regions")
	KeyEntities    = capitan.NewIntKey("entities")
	KeyMismatchAt  = capitan.NewIntKey("mismatch_at")
	KeyDuration    = capitan.NewDurationKey("duration")
	KeyError       = capitan.NewErrorKey("error")
	KeyTagCount    = capitan.NewIntKey("tag_count")
	KeySelfClosing = capitan.NewStringKey("self_closing_nowikis")
)

// emitConverterCreated emits an event when a converter is created.
func emitConverterCreated(ctx context.Context, title string, tags int) {
	capitan.Emit(ctx, SignalConverterCreated,
		KeyTitle.Field(title),
		KeyTagCount.Field(tags),
	)
}

// emitToHTMLComplete emits an event when a wikitext-to-HTML conversion finishes.
func emitToHTMLComplete(ctx context.Context, title string, size, regions, entities int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyTitle.Field(title),
		KeySize.Field(size),
		KeyRegions.Field(regions),
		KeyEntities.Field(entities),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalToHTMLComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalToHTMLComplete, fields...)
	}
}

// emitToWikitextComplete emits an event when an HTML-to-wikitext conversion finishes.
func emitToWikitextComplete(ctx context.Context, passID string, size int, selfClosing bool, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyPassID.Field(passID),
		KeySize.Field(size),
		KeySelfClosing.Field(boolString(selfClosing)),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalToWikitextComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalToWikitextComplete, fields...)
	}
}

// emitRoundTripComplete emits an event when a round trip finishes.
func emitRoundTripComplete(ctx context.Context, title string, mismatchAt int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyTitle.Field(title),
		KeyMismatchAt.Field(mismatchAt),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalRoundTripComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalRoundTripComplete, fields...)
	}
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
