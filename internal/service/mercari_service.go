package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/DavidwithD/InventoryHub/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	curlURLPattern    = regexp.MustCompile(`curl\s+'([^']+)'`)
	curlHeaderPattern = regexp.MustCompile(`-H\s+'([^:]+):\s*([^']+)'`)
)

// MercariService 从卖家后台的 cURL 命令导入已售订单。
// 只创建无明细的空订单，成本后续通过订单明细补充
type MercariService struct {
	orderSvc   *OrderService
	orderRepo  *repository.OrderRepository
	httpClient *http.Client
	logger     *zap.Logger
}

func NewMercariService(orderSvc *OrderService, orderRepo *repository.OrderRepository, logger *zap.Logger) *MercariService {
	return &MercariService{
		orderSvc:   orderSvc,
		orderRepo:  orderRepo,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// ImportRequest 导入请求：caller 从浏览器开发者工具复制已售列表接口的 cURL 命令。
// SkipExisting 缺省为 true
type ImportRequest struct {
	CurlCommand  string `json:"curl_command" binding:"required"`
	SkipExisting *bool  `json:"skip_existing"`
}

// ImportResult 导入结果统计
type ImportResult struct {
	Total   int      `json:"total"`
	Success int      `json:"success"`
	Skipped int      `json:"skipped"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors"`
}

type mercariItem struct {
	ItemID            string `json:"item_id"`
	Name              string `json:"name"`
	PhotoThumbnailURL string `json:"photo_thumbnail_url"`
}

type soldHistory struct {
	Item                  *mercariItem `json:"item"`
	SalesProfit           int          `json:"sales_profit"`
	SellerShippingFee     int          `json:"seller_shipping_fee"`
	TransactionFinishedAt int64        `json:"transaction_finished_at"`
}

type mercariResponse struct {
	Result string `json:"result"`
	Data   *struct {
		SoldHistories []soldHistory `json:"sold_histories"`
		TotalCount    int           `json:"total_count"`
	} `json:"data"`
}

// ImportOrdersFromCurl 解析 cURL 命令，分页拉取已售记录并批量创建订单。
// 单条失败不影响其余记录，逐条累计到结果统计中
func (s *MercariService) ImportOrdersFromCurl(ctx context.Context, req ImportRequest) *ImportResult {
	result := &ImportResult{Errors: []string{}}

	skipExisting := true
	if req.SkipExisting != nil {
		skipExisting = *req.SkipExisting
	}

	rawURL, headers := parseCurlCommand(req.CurlCommand)
	if rawURL == "" {
		result.Errors = append(result.Errors, "无法解析 cURL 命令中的 URL")
		return result
	}

	baseURL, err := setURLParam(rawURL, "limit", "100")
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("无法解析 URL: %v", err))
		return result
	}

	first, err := s.fetchPage(ctx, baseURL, headers, 0)
	if err != nil || first.Data == nil {
		result.Errors = append(result.Errors, "无法获取 Mercari API 响应")
		return result
	}
	result.Total = first.Data.TotalCount
	s.logger.Info("mercari import started", zap.Int("total", result.Total))

	histories := first.Data.SoldHistories
	for offset := 100; len(histories) < result.Total; offset += 100 {
		page, err := s.fetchPage(ctx, baseURL, headers, offset)
		if err == nil && page.Data != nil && len(page.Data.SoldHistories) > 0 {
			histories = append(histories, page.Data.SoldHistories...)
		}
		// 防止接口返回异常时死循环
		if offset > result.Total+100 {
			break
		}
	}
	s.logger.Info("mercari histories fetched", zap.Int("count", len(histories)))

	for _, h := range histories {
		if h.Item == nil {
			result.Failed++
			result.Errors = append(result.Errors, "销售记录缺少商品信息")
			continue
		}

		exists, err := s.orderRepo.NoExists(ctx, h.Item.ItemID, 0)
		if err == nil && exists && skipExisting {
			result.Skipped++
			continue
		}

		imageURL := h.Item.PhotoThumbnailURL
		_, err = s.orderSvc.CreateBare(ctx, CreateOrderRequest{
			OrderNo:         h.Item.ItemID,
			Name:            h.Item.Name,
			ImageURL:        &imageURL,
			Revenue:         decimal.NewFromInt(int64(h.SalesProfit)),
			ShippingFee:     decimal.NewFromInt(int64(h.SellerShippingFee)),
			TransactionTime: time.Unix(h.TransactionFinishedAt, 0),
		})
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("订单 %s: %v", h.Item.ItemID, err))
			s.logger.Error("mercari order import failed",
				zap.String("order_no", h.Item.ItemID), zap.Error(err))
			continue
		}
		result.Success++
	}

	s.logger.Info("mercari import finished",
		zap.Int("success", result.Success),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed))
	return result
}

// parseCurlCommand 提取 cURL 命令中的 URL 和请求头
func parseCurlCommand(curlCommand string) (string, map[string]string) {
	rawURL := ""
	if m := curlURLPattern.FindStringSubmatch(curlCommand); m != nil {
		rawURL = m[1]
	}

	headers := make(map[string]string)
	for _, m := range curlHeaderPattern.FindAllStringSubmatch(curlCommand, -1) {
		headers[strings.TrimSpace(m[1])] = strings.TrimSpace(m[2])
	}
	return rawURL, headers
}

// setURLParam 重写 URL 查询参数
func setURLParam(rawURL, key, value string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (s *MercariService) fetchPage(ctx context.Context, baseURL string, headers map[string]string, offset int) (*mercariResponse, error) {
	pageURL, err := setURLParam(baseURL, "offset", strconv.Itoa(offset))
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, v := range headers {
		// 跳过由 http.Client 自动管理的头
		if strings.EqualFold(k, "content-length") || strings.EqualFold(k, "host") {
			continue
		}
		req.Header.Set(k, v)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mercari api status %d", resp.StatusCode)
	}

	respBody, _ := io.ReadAll(resp.Body)
	var result mercariResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return &result, nil
}
