package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

var httpClient *http.Client

func init() {
	// 优化 HTTP Client 配置
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 2000
	t.MaxIdleConnsPerHost = 2000
	t.MaxConnsPerHost = 2000
	httpClient = &http.Client{
		Transport: t,
		Timeout:   10 * time.Second,
	}
}

// envelope 统一响应结构
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "server base URL")
	adminToken := flag.String("admin-token", "", "bearer token of an admin profile")
	total := flag.Int("n", 1000, "concurrent redeem requests against one coupon")
	flag.Parse()

	if *adminToken == "" {
		fmt.Println("-admin-token is required")
		os.Exit(2)
	}

	// 1. 准备数据：档案 + 调试 Token + 一张券 (管理员操作)
	profileID, err := createProfile(*baseURL, *adminToken)
	if err != nil {
		fmt.Printf("创建档案失败: %v\n", err)
		os.Exit(1)
	}
	userToken, err := devToken(*baseURL, profileID)
	if err != nil {
		fmt.Printf("签发 Token 失败 (服务需开启 app.debug): %v\n", err)
		os.Exit(1)
	}
	couponID, err := issueCoupon(*baseURL, *adminToken, profileID)
	if err != nil {
		fmt.Printf("发券失败: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("开始压测：%d 个并发请求核销同一张券 (CouponID: %s)...\n", *total, couponID)

	// 2. 并发核销
	var wg sync.WaitGroup
	var successCount, redeemedCount, failCount int64
	start := time.Now()

	for i := 0; i < *total; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			code, err := redeem(*baseURL, userToken, couponID)
			switch {
			case err != nil:
				atomic.AddInt64(&failCount, 1)
			case code == 0:
				atomic.AddInt64(&successCount, 1)
			case code == 20002:
				atomic.AddInt64(&redeemedCount, 1)
			default:
				atomic.AddInt64(&failCount, 1)
			}
		}()
	}

	wg.Wait()
	duration := time.Since(start)
	qps := float64(*total) / duration.Seconds()

	fmt.Println("--------------------------------------------------")
	fmt.Printf("压测结束，耗时: %v\n", duration)
	fmt.Printf("总请求数: %d\n", *total)
	fmt.Printf("QPS: %.2f\n", qps)
	fmt.Printf("核销成功: %d (预期: 1)\n", successCount)
	fmt.Printf("已被核销: %d\n", redeemedCount)
	fmt.Printf("其他失败: %d\n", failCount)
	fmt.Println("--------------------------------------------------")

	if successCount != 1 {
		os.Exit(1)
	}
}

func call(method, url, token string, payload interface{}) (*envelope, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(respBody))
	}
	return &env, nil
}

func createProfile(baseURL, adminToken string) (string, error) {
	env, err := call(http.MethodPost, baseURL+"/profiles", adminToken, map[string]interface{}{
		"nickname": "stress-" + uuid.NewString()[:8],
		"points":   0,
		"coins":    0,
	})
	if err != nil {
		return "", err
	}
	return idFrom(env)
}

func devToken(baseURL, profileID string) (string, error) {
	env, err := call(http.MethodPost, baseURL+"/auth/dev-token", "", map[string]string{"profileId": profileID})
	if err != nil {
		return "", err
	}
	if env.Code != 0 {
		return "", errors.New(env.Message)
	}
	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return "", err
	}
	return data.Token, nil
}

func issueCoupon(baseURL, adminToken, profileID string) (string, error) {
	env, err := call(http.MethodPost, baseURL+"/coupons", adminToken, map[string]interface{}{
		"userId":      profileID,
		"code":        "STRESS-" + uuid.NewString()[:8],
		"description": "压测专用券",
		"kind":        "amount",
		"amountOff":   "50",
		"categories":  []string{"Audio"},
	})
	if err != nil {
		return "", err
	}
	return idFrom(env)
}

func redeem(baseURL, token, couponID string) (int, error) {
	env, err := call(http.MethodPost, baseURL+"/coupons/"+couponID+"/redeem", token, map[string]string{
		"price":    "199.99",
		"category": "Audio",
	})
	if err != nil {
		return 0, err
	}
	return env.Code, nil
}

func idFrom(env *envelope) (string, error) {
	if env.Code != 0 {
		return "", errors.New(env.Message)
	}
	var data struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return "", err
	}
	return data.ID, nil
}
