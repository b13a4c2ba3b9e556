package dto

import (
	"github.com/flexcargo/flexcargo/internal/domain/sequence"
)

type SequenceCounterResponse struct {
	*sequence.Counter
}

func NewSequenceCounterResponse(c *sequence.Counter) *SequenceCounterResponse {
	return &SequenceCounterResponse{Counter: c}
}

type ListSequenceCountersResponse = ListResponse[*SequenceCounterResponse]
