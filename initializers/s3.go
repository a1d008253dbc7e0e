package initializers

import (
	"intavia-backend/config"
	s3client "intavia-backend/s3"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"
)

func InitS3() {
	conf := config.Conf.S3
	client, err := minio.New(conf.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(conf.AccessKeyID, conf.SecretAccessKey, ""),
		Secure: *conf.UseSSL,
	})
	if err != nil {
		log.WithError(err).Fatal("s3 client init failed")
	}
	s3client.Client = client
}
