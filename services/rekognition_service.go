package services

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"github.com/fperezb/diet-agent-telegram/models"
)

// RekognitionService detects food labels in an image. It is the degraded
// identification path: names and confidences only, never nutrition.
type RekognitionService struct {
	client *rekognition.Client
}

func NewRekognitionService(ctx context.Context) (*RekognitionService, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		return nil, err
	}
	return &RekognitionService{client: rekognition.NewFromConfig(cfg)}, nil
}

// RecognizeFoods returns the top labels for the image as identified foods.
func (r *RekognitionService) RecognizeFoods(ctx context.Context, imageData []byte) ([]models.IdentifiedFood, error) {
	out, err := r.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: imageData},
		MaxLabels:     aws.Int32(5),
		MinConfidence: aws.Float32(75),
	})
	if err != nil {
		return nil, err
	}

	var foods []models.IdentifiedFood
	for _, l := range out.Labels {
		if l.Name == nil {
			continue
		}
		conf := 0.75
		if l.Confidence != nil {
			conf = float64(*l.Confidence) / 100
		}
		foods = append(foods, models.IdentifiedFood{
			Name:       *l.Name,
			Confidence: conf,
		})
	}
	return foods, nil
}
