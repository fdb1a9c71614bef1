package server

import (
	"bufio"
	"context"
	"fmt"
	"time"

	"github.com/titouancv/mapinned/internal/models"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

// captionTimeout bounds a single description stream end to end.
const captionTimeout = 2 * time.Minute

// DescribePhoto streams an AI-generated description of a photo as
// server-sent events. Each text fragment arrives as a "data:" event the
// moment the model produces it; the stream ends with "event: done" or, if
// generation fails midway, "event: error". The photo itself is untouched
// either way.
func (s *Server) DescribePhoto(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return nil
	}

	photo, err := s.photoService.GetPhoto(c.UserContext(), id)
	if err != nil {
		return respond(c, err)
	}

	// The stream writer below runs after this handler returns, so it cannot
	// use the request context.
	ctx, cancel := context.WithTimeout(context.Background(), captionTimeout)

	fragments, err := s.captions.Describe(ctx, photo.URL)
	if err != nil {
		cancel()
		return models.RespondWithError(c, fiber.StatusBadGateway,
			models.NewInternalError(err))
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()

		for frag := range fragments {
			if frag.Err != nil {
				fmt.Fprintf(w, "event: error\ndata: %s\n\n", sseEncode(frag.Err.Error()))
				w.Flush()
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", sseEncode(frag.Text))
			if err := w.Flush(); err != nil {
				// Client went away; cancelling unblocks the model stream.
				return
			}
		}
		fmt.Fprint(w, "event: done\ndata: {}\n\n")
		w.Flush()
	}))

	return nil
}

// sseEncode wraps a fragment as a JSON string so embedded newlines cannot
// break the event framing.
func sseEncode(text string) []byte {
	data, err := json.Marshal(fiber.Map{"text": text})
	if err != nil {
		return []byte(`{"text":""}`)
	}
	return data
}
