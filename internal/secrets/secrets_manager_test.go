package secrets

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSecretsManager struct {
	mock.Mock
}

func (m *mockSecretsManager) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	args := m.Called(ctx, aws.ToString(params.SecretId))
	out, _ := args.Get(0).(*secretsmanager.GetSecretValueOutput)
	return out, args.Error(1)
}

func TestManager_GetSecretString(t *testing.T) {
	ctx := context.Background()
	const arn = "arn:aws:secretsmanager:us-east-1:123:secret:shield"

	tests := []struct {
		name       string
		arn        string
		fallback   string
		setupMocks func(m *mockSecretsManager)
		want       string
		wantErr    bool
	}{
		{
			name: "secret from Secrets Manager",
			arn:  arn,
			setupMocks: func(m *mockSecretsManager) {
				m.On("GetSecretValue", ctx, arn).Return(&secretsmanager.GetSecretValueOutput{SecretString: aws.String("s3cret")}, nil)
			},
			want: "s3cret",
		},
		{
			name:     "fetch failure falls back",
			arn:      arn,
			fallback: "local",
			setupMocks: func(m *mockSecretsManager) {
				m.On("GetSecretValue", ctx, arn).Return(nil, errors.New("access denied"))
			},
			want: "local",
		},
		{
			name:     "empty arn uses fallback without calling AWS",
			fallback: "local",
			want:     "local",
		},
		{
			name: "nothing available",
			arn:  arn,
			setupMocks: func(m *mockSecretsManager) {
				m.On("GetSecretValue", ctx, arn).Return(&secretsmanager.GetSecretValueOutput{SecretString: aws.String("")}, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockSecretsManager{}
			if tt.setupMocks != nil {
				tt.setupMocks(svc)
			}

			got, err := NewManager(svc).Source(tt.arn, tt.fallback)(ctx)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			svc.AssertExpectations(t)
		})
	}
}
