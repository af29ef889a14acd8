package dispatcher

import (
	"crypto/tls"
	"time"

	"github.com/valyala/fasthttp"
)

// HTTPPool round-robins moderation calls across a set of keep-alive
// fasthttp clients so a burst of remediations does not serialize on
// one connection.
type HTTPPool struct {
	clients []*fasthttp.Client
	size    int
	index   int
}

func NewHTTPPool(size int) *HTTPPool {
	if size <= 0 {
		size = 4
	}

	tlsConfig := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		MaxVersion:         tls.VersionTLS13,
		ClientSessionCache: tls.NewLRUClientSessionCache(128),
	}

	clients := make([]*fasthttp.Client, size)
	for i := 0; i < size; i++ {
		clients[i] = &fasthttp.Client{
			MaxConnsPerHost:     512,
			MaxIdleConnDuration: 180 * time.Second,
			ReadTimeout:         2 * time.Second,
			WriteTimeout:        2 * time.Second,
			MaxConnWaitTimeout:  500 * time.Millisecond,

			ReadBufferSize:      65536,
			WriteBufferSize:     65536,
			MaxResponseBodySize: 4 * 1024 * 1024,

			// Fail fast; the executor never retries a remediation.
			MaxIdemponentCallAttempts: 1,

			DialDualStack:            true,
			TLSConfig:                tlsConfig,
			NoDefaultUserAgentHeader: true,
		}
	}

	return &HTTPPool{
		clients: clients,
		size:    size,
	}
}

func (hp *HTTPPool) GetClient() *fasthttp.Client {
	client := hp.clients[hp.index]
	hp.index = (hp.index + 1) % hp.size
	return client
}

// Warmup primes TLS sessions against the API host so the first real
// remediation does not pay the handshake.
func (hp *HTTPPool) Warmup(baseURL string) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	successCount := 0
	for i := 0; i < 3; i++ {
		req.SetRequestURI(baseURL + "/gateway")
		req.Header.SetMethod("GET")

		err := hp.clients[0].DoTimeout(req, resp, 2*time.Second)
		if err == nil && resp.StatusCode() == 200 {
			successCount++
		}

		if successCount >= 2 {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
}
