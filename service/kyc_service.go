package services

import (
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/elastic/go-elasticsearch/v8"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// KycService owns the database handle and the storage/search clients shared
// by every operation.
type KycService struct {
	db       *gorm.DB
	s3Client *s3.S3
	esClient *elasticsearch.Client
}

// NewKycService initializes the service with an S3 client against the Supabase
// storage endpoint and, when configured, an Elasticsearch client. Search is an
// optional feature: a missing ELASTICSEARCH_URL disables it without failing.
func NewKycService(db *gorm.DB) (*KycService, error) {
	region := os.Getenv("SUPABASE_REGION")
	endpoint := os.Getenv("SUPABASE_S3_ENDPOINT")
	accessKey := os.Getenv("SUPABASE_ACCESS_KEY")
	secretKey := os.Getenv("SUPABASE_SECRET_KEY")

	if region == "" || endpoint == "" || accessKey == "" || secretKey == "" {
		return nil, fmt.Errorf("missing required S3 configuration environment variables")
	}

	sess, err := session.NewSession(&aws.Config{
		Region:           aws.String(region),
		Endpoint:         aws.String(endpoint),
		DisableSSL:       aws.Bool(false),
		Credentials:      credentials.NewStaticCredentials(accessKey, secretKey, ""),
		S3ForcePathStyle: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	esURL := os.Getenv("ELASTICSEARCH_URL")
	var esClient *elasticsearch.Client
	if esURL != "" {
		esClient, err = elasticsearch.NewClient(elasticsearch.Config{
			Addresses: []string{esURL},
		})
		if err != nil {
			log.Printf("Warning: Failed to create Elasticsearch client: %v", err)
			esClient = nil
		}
	}

	return &KycService{db: db, s3Client: s3.New(sess), esClient: esClient}, nil
}
