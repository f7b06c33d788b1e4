package api

import (
	"context"
	"fmt"

	"github.com/klyve/vodctl/internal/domain"
)

const promotionalVideosPath = "api/admin/promotional-videos"

type videoEnvelope struct {
	Data domain.PromotionalVideo `json:"data"`
}

// GetVideoURL fetches the playback URL for one video, for previewing an
// entry before it goes live.
func (c *Client) GetVideoURL(ctx context.Context, videoID string) (string, error) {
	var out struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := c.get(ctx, "api/admin/videos/"+videoID+"/video", nil, &out); err != nil {
		return "", fmt.Errorf("get video url: %w", err)
	}
	if out.Data.URL == "" {
		return "", fmt.Errorf("get video url: no url for video %s", videoID)
	}
	return out.Data.URL, nil
}

func (c *Client) ListPromotionalVideos(ctx context.Context) ([]domain.PromotionalVideo, error) {
	var out struct {
		Data []domain.PromotionalVideo `json:"data"`
	}
	if err := c.get(ctx, promotionalVideosPath, nil, &out); err != nil {
		return nil, fmt.Errorf("list promotional videos: %w", err)
	}
	return out.Data, nil
}

// CreateSignedUpload asks the backend for a fresh video id and a signed URL
// the original file is uploaded to directly.
func (c *Client) CreateSignedUpload(ctx context.Context, title, description, fileName string) (domain.SignedUpload, error) {
	body := map[string]string{
		"title":       title,
		"description": description,
		"fileName":    fileName,
	}
	var out domain.SignedUpload
	if err := c.post(ctx, promotionalVideosPath+"/signed-url", body, &out); err != nil {
		return domain.SignedUpload{}, fmt.Errorf("create signed upload: %w", err)
	}
	return out, nil
}

func (c *Client) CreatePromotionalVideo(ctx context.Context, draft domain.VideoDraft) (domain.PromotionalVideo, error) {
	var out videoEnvelope
	if err := c.post(ctx, promotionalVideosPath, draft, &out); err != nil {
		return domain.PromotionalVideo{}, fmt.Errorf("create promotional video: %w", err)
	}
	return out.Data, nil
}

func (c *Client) UpdatePromotionalVideo(ctx context.Context, id string, draft domain.VideoDraft) (domain.PromotionalVideo, error) {
	var out videoEnvelope
	if err := c.put(ctx, promotionalVideosPath+"/"+id, draft, &out); err != nil {
		return domain.PromotionalVideo{}, fmt.Errorf("update promotional video: %w", err)
	}
	return out.Data, nil
}

func (c *Client) DeletePromotionalVideo(ctx context.Context, id string) error {
	if err := c.delete(ctx, promotionalVideosPath+"/"+id); err != nil {
		return fmt.Errorf("delete promotional video: %w", err)
	}
	return nil
}
