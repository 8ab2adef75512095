package domain

import (
	"fmt"
	"time"
)

// CommentType distinguishes the two halves of a composite comment.
type CommentType string

const (
	CommentTypeWeather CommentType = "WEATHER_COMMENT"
	CommentTypeAdvice  CommentType = "ADVICE"
	CommentTypeUnknown CommentType = "UNKNOWN"
)

// PastComment is one historical comment record retrieved from the corpus.
type PastComment struct {
	Location      string
	DateTime      time.Time
	WeatherCond   string // raw condition string as recorded in the corpus
	CommentText   string
	CommentType   CommentType
	Temperature   *float64
	Humidity      *float64
	Precipitation *float64
	WindSpeed     *float64
	WeatherCode   string
	SourceFile    string
	UsageCount    int
	RawData       map[string]string // opaque passthrough fields
}

// Validate checks the value-range invariants on temperature and humidity.
func (c PastComment) Validate() error {
	if c.CommentText == "" {
		return ErrEmptyComment
	}
	if c.Temperature != nil && (*c.Temperature < -50 || *c.Temperature > 60) {
		return fmt.Errorf("%w: temperature %.1f out of range [-50,60]", ErrInvalidForecast, *c.Temperature)
	}
	if c.Humidity != nil && (*c.Humidity < 0 || *c.Humidity > 100) {
		return fmt.Errorf("%w: humidity %.1f out of range [0,100]", ErrInvalidForecast, *c.Humidity)
	}
	return nil
}

// CommentPair is the composite selection result from the pair selector.
type CommentPair struct {
	WeatherComment   PastComment
	AdviceComment    PastComment
	SimilarityScore  float64
	SelectionReason  string
	Metadata         map[string]string
}

// Validate enforces the pair's type invariant: the weather
// half must be CommentTypeWeather and the advice half CommentTypeAdvice.
func (p CommentPair) Validate() error {
	if p.WeatherComment.CommentType != CommentTypeWeather {
		return fmt.Errorf("%w: weather_comment has type %s, want %s", ErrInvalidPair, p.WeatherComment.CommentType, CommentTypeWeather)
	}
	if p.AdviceComment.CommentType != CommentTypeAdvice {
		return fmt.Errorf("%w: advice_comment has type %s, want %s", ErrInvalidPair, p.AdviceComment.CommentType, CommentTypeAdvice)
	}
	return nil
}
