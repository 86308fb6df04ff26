package s3

import (
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "owner/cv.pdf", want: "owner/cv.pdf"},
		{name: "simple prefix", prefix: "creerlio", key: "owner/cv.pdf", want: "creerlio/owner/cv.pdf"},
		{name: "prefix trailing slash", prefix: "creerlio/", key: "owner/cv.pdf", want: "creerlio/owner/cv.pdf"},
		{name: "prefix and key slashes", prefix: "/creerlio/", key: "/owner/cv.pdf", want: "creerlio/owner/cv.pdf"},
		{name: "generated output", prefix: "creerlio/prod", key: "generated/r1.pdf", want: "creerlio/prod/generated/r1.pdf"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, applyPrefix(tt.prefix, tt.key))
		})
	}
}

func TestApplyEncryption(t *testing.T) {
	in := &s3.PutObjectInput{}
	applyEncryption(in, "")
	assert.Equal(t, s3types.ServerSideEncryptionAes256, in.ServerSideEncryption)
	assert.Nil(t, in.SSEKMSKeyId)

	in = &s3.PutObjectInput{}
	applyEncryption(in, "alias/creerlio")
	assert.Equal(t, s3types.ServerSideEncryptionAwsKms, in.ServerSideEncryption)
	require.NotNil(t, in.SSEKMSKeyId)
	assert.Equal(t, "alias/creerlio", *in.SSEKMSKeyId)
}

func TestCountingReader(t *testing.T) {
	c := &countingReader{r: strings.NewReader("hello")}
	_, err := io.ReadAll(c)
	require.NoError(t, err)
	assert.EqualValues(t, 5, c.n)
}
