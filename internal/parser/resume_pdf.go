// Package parser 负责从用户上传的简历文件中提取纯文本。
package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoParser "github.com/cloudwego/eino/components/document/parser"
	"github.com/rs/zerolog"

	"job-copilot-go/internal/logger"
)

// ResumePDFExtractor 使用 Eino PDF Parser 提取简历文本
type ResumePDFExtractor struct {
	parser *pdf.PDFParser
	logger zerolog.Logger
}

// NewResumePDFExtractor 初始化简历PDF提取器
// 不按页面分割，整份简历作为单个连续文本返回
func NewResumePDFExtractor(ctx context.Context) (*ResumePDFExtractor, error) {
	p, err := pdf.NewPDFParser(ctx, &pdf.Config{
		ToPages: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Eino PDF parser: %w", err)
	}

	return &ResumePDFExtractor{
		parser: p,
		logger: logger.Logger.With().Str("component", "resume_pdf_extractor").Logger(),
	}, nil
}

// ExtractFromReader 从io.Reader提取简历全文
func (e *ResumePDFExtractor) ExtractFromReader(ctx context.Context, reader io.Reader, uri string) (string, error) {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	docs, err := e.parser.Parse(ctx, reader,
		einoParser.WithURI(uri),
	)

	duration := time.Since(startTime)
	if err != nil {
		e.logger.Warn().
			Err(err).
			Str("uri", uri).
			Dur("duration", duration).
			Msg("简历PDF解析失败")
		return "", fmt.Errorf("eino PDF parser failed for URI %s: %w", uri, err)
	}

	if len(docs) == 0 {
		return "", fmt.Errorf("eino PDF parser returned no documents for URI %s", uri)
	}

	// 合并所有文档的内容（以防万一返回了多个）
	var buf bytes.Buffer
	for i, doc := range docs {
		buf.WriteString(doc.Content)
		if i < len(docs)-1 {
			buf.WriteString("\n\n")
		}
	}

	text := buf.String()
	e.logger.Info().
		Str("uri", uri).
		Int("text_length", len(text)).
		Dur("duration", duration).
		Msg("简历PDF解析完成")

	return text, nil
}

// ExtractFromBytes 从字节数组提取简历全文
func (e *ResumePDFExtractor) ExtractFromBytes(ctx context.Context, data []byte, uri string) (string, error) {
	return e.ExtractFromReader(ctx, bytes.NewReader(data), uri)
}
