// Package vision detects image labels with the Google Cloud Vision API.
package vision

import (
	"context"
	"fmt"

	gvision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/googleapis/gax-go/v2"
)

const (
	// MinScore is the lowest confidence a label must reach to be kept.
	MinScore = 0.7

	maxResults = 10
)

type annotator interface {
	BatchAnnotateImages(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest, opts ...gax.CallOption) (*visionpb.BatchAnnotateImagesResponse, error)
	Close() error
}

// Labeler returns the descriptions of labels detected in an image.
type Labeler struct {
	client annotator
}

// NewLabeler creates a Labeler using Application Default Credentials.
func NewLabeler(ctx context.Context) (*Labeler, error) {
	client, err := gvision.NewImageAnnotatorClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}
	return &Labeler{client: client}, nil
}

// Close releases the Vision API client.
func (l *Labeler) Close() error {
	return l.client.Close()
}

// Labels returns the labels scoring at least MinScore, most confident first.
func (l *Labeler) Labels(ctx context.Context, data []byte) ([]string, error) {
	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: data},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_LABEL_DETECTION, MaxResults: maxResults},
				},
			},
		},
	}

	resp, err := l.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("vision API request failed: %w", err)
	}
	if len(resp.Responses) == 0 {
		return nil, nil
	}
	if resp.Responses[0].Error != nil {
		return nil, fmt.Errorf("vision API error: %s", resp.Responses[0].Error.Message)
	}

	labels := make([]string, 0, len(resp.Responses[0].LabelAnnotations))
	for _, a := range resp.Responses[0].LabelAnnotations {
		if a.Score >= MinScore && a.Description != "" {
			labels = append(labels, a.Description)
		}
	}
	return labels, nil
}
