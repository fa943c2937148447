package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/geokeeper/internal/common"
	"github.com/dmitrijs2005/geokeeper/internal/dbx"
	sc "github.com/dmitrijs2005/geokeeper/internal/server/config"
	"github.com/dmitrijs2005/geokeeper/internal/server/models"
	"github.com/dmitrijs2005/geokeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// CatalogService owns the origin copy of the country catalog: listing it,
// replacing it atomically, and attaching flag images stored in an
// S3-compatible backend.
type CatalogService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewCatalogService(db *sql.DB, repomanager repomanager.RepositoryManager, config *sc.Config) *CatalogService {
	return &CatalogService{
		db:          db,
		repomanager: repomanager,
		config:      config,
	}
}

func GetRandomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("flags/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *CatalogService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,     // MINIO_ROOT_USER
			s.config.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

// List returns the catalog in dataset order together with presigned GET URLs
// for every flag image, keyed by country id. The presign client is only
// built when at least one row has a flag.
func (s *CatalogService) List(ctx context.Context) ([]models.Country, map[int64]string, error) {

	repo := s.repomanager.Countries(s.db)

	items, err := repo.GetAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("error reading catalog: %w", err)
	}

	flagURLs := map[int64]string{}
	var presignClient *s3.PresignClient
	for _, item := range items {
		if item.FlagKey == "" {
			continue
		}
		if presignClient == nil {
			presignClient, err = s.getPresignClient()
			if err != nil {
				return nil, nil, err
			}
		}

		bucket := s.config.S3Bucket
		key := item.FlagKey

		// Presigned GET
		req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
			Bucket: &bucket,
			Key:    &key,
		}, s3.WithPresignExpires(15*time.Minute))
		if err != nil {
			return nil, nil, err
		}
		flagURLs[item.ID] = req.URL
	}

	return items, flagURLs, nil
}

// ReplaceDataset swaps the entire catalog for the incoming rows in one
// transaction and returns the number of rows written. Flag images survive
// the swap: keys are carried over to new rows with the same country name.
func (s *CatalogService) ReplaceDataset(ctx context.Context, items []models.Country) (int, error) {

	seen := map[string]bool{}
	for _, item := range items {
		if item.Name == "" {
			return 0, fmt.Errorf("%w: empty country name", common.ErrorInvalidArgument)
		}
		if seen[item.Name] {
			return 0, fmt.Errorf("%w: duplicate country name %q", common.ErrorInvalidArgument, item.Name)
		}
		seen[item.Name] = true
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {

		repoTx := s.repomanager.Countries(tx)

		flagKeys, err := repoTx.FlagKeys(ctx)
		if err != nil {
			return err
		}

		if err := repoTx.DeleteAll(ctx); err != nil {
			return err
		}

		for _, item := range items {
			item.FlagKey = flagKeys[item.Name]
			if _, err := repoTx.Create(ctx, &item); err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		return 0, fmt.Errorf("error replacing catalog: %w", err)
	}

	return len(items), nil
}

// FlagUpload generates a fresh storage key for the named country, records it,
// and returns a presigned PUT URL the admin client uploads the image to.
func (s *CatalogService) FlagUpload(ctx context.Context, countryName string) (*models.FlagUploadTask, error) {

	repo := s.repomanager.Countries(s.db)

	country, err := repo.GetByName(ctx, countryName)
	if err != nil {
		return nil, err
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		return nil, err
	}

	bucket := s.config.S3Bucket
	key := GetRandomStorageKey()

	// Presigned PUT
	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))

	if err != nil {
		return nil, err
	}

	if err := repo.SetFlagKey(ctx, country.ID, key); err != nil {
		return nil, fmt.Errorf("error updating flag key: %w", err)
	}

	return &models.FlagUploadTask{CountryID: country.ID, URL: req.URL}, nil
}
