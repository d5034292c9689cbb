package llm

import (
	"context"
	"strings"

	vertexgenai "cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/yoockh/nebula/internal/utils"
)

type VertexGemini struct {
	client    *vertexgenai.Client
	modelName string
}

func NewVertexGemini(ctx context.Context, projectID, location, modelName string) (*VertexGemini, error) {
	c, err := vertexgenai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, err
	}

	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	return &VertexGemini{client: c, modelName: modelName}, nil
}

func (v *VertexGemini) Close() error { return v.client.Close() }

func (v *VertexGemini) Complete(ctx context.Context, req Request) (string, error) {
	const op = "VertexGemini.Complete"

	// A fresh model handle per call keeps the per-request system instruction
	// and temperature off the shared client.
	model := v.client.GenerativeModel(v.modelName)
	if req.System != "" {
		model.SystemInstruction = &vertexgenai.Content{
			Parts: []vertexgenai.Part{vertexgenai.Text(req.System)},
		}
	}
	if req.Temperature > 0 {
		model.SetTemperature(req.Temperature)
	}

	var out strings.Builder
	it := model.GenerateContentStream(ctx, vertexgenai.Text(req.Prompt))
	for {
		resp, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return "", classifyRPC(op, err)
		}

		for _, cand := range resp.Candidates {
			if cand.Content == nil {
				continue
			}
			for _, part := range cand.Content.Parts {
				if t, ok := part.(vertexgenai.Text); ok {
					out.WriteString(string(t))
				}
			}
		}
	}

	return strings.TrimSpace(out.String()), nil
}

func classifyRPC(op string, err error) error {
	switch status.Code(err) {
	case codes.ResourceExhausted:
		return utils.E(utils.CodeRateLimited, op, "provider rate limit", err)
	case codes.Unavailable, codes.Aborted, codes.Internal:
		return utils.E(utils.CodeUnavailable, op, "provider unavailable", err)
	case codes.DeadlineExceeded:
		return utils.E(utils.CodeTimeout, op, "provider deadline exceeded", err)
	default:
		return utils.E(utils.CodeInvalidArgument, op, "completion request rejected", err)
	}
}
