// internal/worker/archiver.go
package worker

import (
	"bytes"
	"context"
	"os"
	"sync/atomic"
	"time"

	"coupang-shorts/internal/config"
	"coupang-shorts/internal/metrics"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfgLib "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog/log"
)

// Archiver 는 실행 산출물(result.txt / products.json / summary.txt)을
// gzip 압축해 S3 에 보관하는 구성 요소이다.
//
// 배치가 매번 같은 로컬 경로를 덮어쓰기 때문에, 지난 실행의 리포트를
// 나중에 비교·분석하려면 S3 쪽 사본이 유일한 기록이 된다.
//
// 모든 업로드는 컨텍스트 기반(timeout + cancel-safe)으로 이루어지며,
// 재시도(backoff) 로직을 포함한다. 업로드 실패는 best-effort 로 로그만
// 남긴다 — 아카이브가 실패했다고 이번 실행이 실패한 것은 아니다.
type Archiver struct {
	cfg     config.ArchiveConfig
	inst    string
	metrics *metrics.Metrics
	client  *s3.Client
}

// NewArchiver 는 AWS SDK Config 를 초기화하고 S3 client 를 생성한다.
// Bucket 이 비어 있으면 client 를 만들지 않는다 (Enabled()=false).
func NewArchiver(cfg config.ArchiveConfig, instanceID string, m *metrics.Metrics) *Archiver {
	a := &Archiver{cfg: cfg, inst: instanceID, metrics: m}
	if cfg.Bucket == "" {
		return a
	}

	awsCfg, err := awsCfgLib.LoadDefaultConfig(
		context.TODO(),
		awsCfgLib.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		// 아카이브는 부가 기능이므로 fatal 로 죽이지 않는다.
		log.Error().Err(err).Msg("failed to load AWS config, archive disabled")
		return a
	}

	a.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		// SDK retry 는 0으로 고정 — 재시도 횟수는 앱 레벨에서만 제어한다.
		o.RetryMaxAttempts = 0
	})
	return a
}

func (a *Archiver) Enabled() bool {
	return a.client != nil
}

// ArchiveFiles 는 주어진 로컬 산출물들을 순서대로 업로드한다.
// 개별 실패는 건너뛰고 계속 진행한다.
func (a *Archiver) ArchiveFiles(ctx context.Context, paths ...string) {
	if !a.Enabled() {
		return
	}
	for _, p := range paths {
		if err := a.archiveFile(ctx, p); err != nil {
			log.Warn().Str("artifact", p).Err(err).Msg("archive upload failed")
		}
	}
}

// archiveFile 은 파일 1개를 gzip 압축 후 업로드한다.
func (a *Archiver) archiveFile(ctx context.Context, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	data, err := gzipBytes(raw)
	if err != nil {
		return err
	}

	key := BuildS3Key(a.cfg.Prefix, NewArchiveName(a.inst, path))
	if err := a.uploadWithRetry(ctx, key, data); err != nil {
		return err
	}

	atomic.AddInt64(&a.metrics.ArchiveUploadedTotal, 1)
	log.Info().Str("key", key).Int("bytes", len(data)).Msg("artifact archived")
	return nil
}

// uploadWithRetry
// -----------------------
// 메모리의 gzip 바이트 배열을 S3 로 업로드한다.
// - 각 시도는 S3Timeout 의 timeout
// - retry + exponential backoff (최대 2초)
// - cancel-safe: ctx.Done() 시 즉시 중단
//
// body 는 매 재시도마다 reader 를 새로 만들어야 하므로 bytes.NewReader 사용.
func (a *Archiver) uploadWithRetry(ctx context.Context, key string, body []byte) error {
	var lastErr error
	backoff := 200 * time.Millisecond

	for attempt := 1; attempt <= a.cfg.AppRetries; attempt++ {

		// 취소 체크
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := a.putObject(ctx, key, body); err == nil {
			return nil
		} else {
			lastErr = err
			atomic.AddInt64(&a.metrics.ArchivePutErrorsTotal, 1)
		}
		if attempt == a.cfg.AppRetries {
			break
		}

		// backoff 적용
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
			backoff *= 2
			if backoff > 2*time.Second {
				backoff = 2 * time.Second
			}
		}
	}

	return lastErr
}

// putObject
// ---------
// 실제 AWS S3 PutObject 호출 1회를 수행한다.
// retries 는 caller 에서 제어한다.
func (a *Archiver) putObject(ctx context.Context, key string, body []byte) error {
	ctx2, cancel := context.WithTimeout(ctx, a.cfg.S3Timeout)
	defer cancel()

	_, err := a.client.PutObject(ctx2, &s3.PutObjectInput{
		Bucket:        aws.String(a.cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
	})
	return err
}

// gzipBytes 는 BestSpeed 로 압축한다. 리포트/JSON 은 텍스트라
// 압축률보다 배치 종료 지연을 줄이는 쪽이 낫다.
func gzipBytes(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	gz, err := gzip.NewWriterLevel(&buf, gzip.BestSpeed)
	if err != nil {
		return nil, err
	}
	if _, err := gz.Write(raw); err != nil {
		_ = gz.Close()
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
