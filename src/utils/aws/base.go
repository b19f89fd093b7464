package aws_handler

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
)

// AWSHandler bundles the AWS service clients the server needs. Only Secrets
// Manager is used, to resolve database credentials at startup.
type AWSHandler struct {
	SecretManager *SecretManager
}

func NewAWSHandler(region string) (*AWSHandler, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region)},
	)
	if err != nil {
		return nil, err
	}

	svc := secretsmanager.New(sess)

	return &AWSHandler{
		SecretManager: NewSecretManager(svc),
	}, nil
}
