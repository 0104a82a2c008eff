package main

import (
	"fmt"
	"path/filepath"

	"github.com/hupe1980/vehpos/blobstore"
	"github.com/hupe1980/vehpos/blobstore/minio"
	"github.com/hupe1980/vehpos/blobstore/s3"
	"github.com/urfave/cli/v2"
)

func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "store",
			Usage: "where the file lives: local, s3 or minio",
			Value: "local",
		},
		&cli.StringFlag{
			Name:    "bucket",
			Usage:   "bucket name for s3 and minio",
			EnvVars: []string{"VEHPOS_BUCKET"},
		},
		&cli.StringFlag{
			Name:  "prefix",
			Usage: "key prefix inside the bucket",
		},
		&cli.StringFlag{
			Name:    "region",
			Usage:   "bucket region",
			EnvVars: []string{"AWS_REGION"},
		},
		&cli.StringFlag{
			Name:    "endpoint",
			Usage:   "minio endpoint (host:port)",
			EnvVars: []string{"MINIO_ENDPOINT"},
		},
		&cli.StringFlag{
			Name:    "access-key",
			EnvVars: []string{"MINIO_ACCESS_KEY"},
		},
		&cli.StringFlag{
			Name:    "secret-key",
			EnvVars: []string{"MINIO_SECRET_KEY"},
		},
		&cli.BoolFlag{
			Name:  "insecure",
			Usage: "use plain HTTP for minio",
		},
	}
}

// openStore returns the store selected by the flags and the blob name of
// file inside it. A local file is opened relative to its own directory.
func openStore(c *cli.Context, file string) (blobstore.BlobStore, string, error) {
	switch kind := c.String("store"); kind {
	case "local", "":
		return blobstore.NewLocalStore(filepath.Dir(file)), filepath.Base(file), nil
	case "s3":
		bucket, err := requireBucket(c)
		if err != nil {
			return nil, "", err
		}
		st, err := s3.New(c.Context, bucket,
			s3.WithPrefix(c.String("prefix")),
			s3.WithRegion(c.String("region")),
		)
		if err != nil {
			return nil, "", err
		}
		return st, file, nil
	case "minio":
		bucket, err := requireBucket(c)
		if err != nil {
			return nil, "", err
		}
		st, err := minio.New(c.String("endpoint"), bucket, func(o *minio.Options) {
			o.AccessKey = c.String("access-key")
			o.SecretKey = c.String("secret-key")
			o.Secure = !c.Bool("insecure")
			o.Region = c.String("region")
			o.Prefix = c.String("prefix")
		})
		if err != nil {
			return nil, "", err
		}
		return st, file, nil
	default:
		return nil, "", fmt.Errorf("unknown store %q", kind)
	}
}

func requireBucket(c *cli.Context) (string, error) {
	bucket := c.String("bucket")
	if bucket == "" {
		return "", fmt.Errorf("--bucket is required for store %q", c.String("store"))
	}
	return bucket, nil
}
