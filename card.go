package main

import (
	"fmt"
	"log"

	"github.com/ebfe/scard"
)

// reader is an open PC/SC connection.
type reader struct {
	ctx  *scard.Context
	card *scard.Card
	name string
}

// connectReader opens the reader at index and connects to the token in it.
func connectReader(index int) (*reader, error) {
	ctx, err := scard.EstablishContext()
	if err != nil {
		return nil, fmt.Errorf("establishing context: %w", err)
	}

	readers, err := ctx.ListReaders()
	if err != nil || len(readers) == 0 {
		release(ctx)
		return nil, fmt.Errorf("no smart card reader found")
	}
	if index < 0 || index >= len(readers) {
		release(ctx)
		return nil, fmt.Errorf("reader index %d out of range (%d readers)", index, len(readers))
	}

	// Force T=0 or T=1 to avoid "Parameter Incorrect" errors (Error 57)
	card, err := ctx.Connect(readers[index], scard.ShareShared, scard.ProtocolT0|scard.ProtocolT1)
	if err != nil {
		release(ctx)
		return nil, fmt.Errorf("connecting to %s: %w", readers[index], err)
	}

	return &reader{ctx: ctx, card: card, name: readers[index]}, nil
}

func (r *reader) Close() {
	if err := r.card.Disconnect(scard.LeaveCard); err != nil {
		log.Printf("Warning: Failed to disconnect card: %v", err)
	}
	release(r.ctx)
}

func release(ctx *scard.Context) {
	if err := ctx.Release(); err != nil {
		log.Printf("Warning: Failed to release context: %v", err)
	}
}
