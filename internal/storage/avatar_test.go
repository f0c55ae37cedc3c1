package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMinio struct {
	buckets map[string]bool
	objects map[string]string
	types   map[string]string
	putErr  error
}

func newFakeMinio() *fakeMinio {
	return &fakeMinio{buckets: map[string]bool{}, objects: map[string]string{}, types: map[string]string{}}
}

func (f *fakeMinio) BucketExists(_ context.Context, name string) (bool, error) {
	return f.buckets[name], nil
}

func (f *fakeMinio) MakeBucket(_ context.Context, name string, _ minio.MakeBucketOptions) error {
	f.buckets[name] = true
	return nil
}

func (f *fakeMinio) PutObject(_ context.Context, bucket, name string, r io.Reader, _ int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.putErr != nil {
		return minio.UploadInfo{}, f.putErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.objects[bucket+"/"+name] = string(b)
	f.types[bucket+"/"+name] = opts.ContentType
	return minio.UploadInfo{Bucket: bucket, Key: name, Size: int64(len(b))}, nil
}

func (f *fakeMinio) RemoveObject(_ context.Context, bucket, name string, _ minio.RemoveObjectOptions) error {
	delete(f.objects, bucket+"/"+name)
	return nil
}

func TestNewAvatarStore_CreatesBucket(t *testing.T) {
	api := newFakeMinio()
	_, err := NewAvatarStoreWithAPI(context.Background(), api, "avatars")
	require.NoError(t, err)
	assert.True(t, api.buckets["avatars"])
}

func TestAvatarStore_UploadAndDelete(t *testing.T) {
	api := newFakeMinio()
	s, err := NewAvatarStoreWithAPI(context.Background(), api, "avatars")
	require.NoError(t, err)

	require.NoError(t, s.Upload(context.Background(), "users/1/a.png", strings.NewReader("img"), 3, "image/png"))
	assert.Equal(t, "img", api.objects["avatars/users/1/a.png"])
	assert.Equal(t, "image/png", api.types["avatars/users/1/a.png"])

	require.NoError(t, s.Delete(context.Background(), "users/1/a.png"))
	assert.Empty(t, api.objects)
}

func TestAvatarStore_UploadError(t *testing.T) {
	api := newFakeMinio()
	api.putErr = errors.New("boom")
	s, err := NewAvatarStoreWithAPI(context.Background(), api, "avatars")
	require.NoError(t, err)

	assert.Error(t, s.Upload(context.Background(), "k", strings.NewReader("x"), 1, "image/png"))
}
