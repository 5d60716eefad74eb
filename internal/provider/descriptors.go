package provider

// AuthStyle describes how a vendor expects the credential on the wire.
type AuthStyle string

const (
	// AuthBearer sends the key as an Authorization: Bearer header.
	AuthBearer AuthStyle = "bearer"
	// AuthAPIKeyHeader sends the key in a vendor-named header.
	AuthAPIKeyHeader AuthStyle = "api_key_header"
	// AuthOAuthToken exchanges the key pair for a short-lived token first.
	AuthOAuthToken AuthStyle = "oauth_token"
)

// Descriptor is the static wire contract for one provider: human name,
// supported models, default model, endpoint base and auth convention.
// Descriptors are built once at process start and never mutated.
type Descriptor struct {
	ID           ID
	Name         string
	BaseURL      string
	Auth         AuthStyle
	Models       []string
	DefaultModel string
}

// SupportsModel reports whether the model id is in the descriptor's
// supported list. The list is authoritative: the invocation service rejects
// unknown models before any network call.
func (d Descriptor) SupportsModel(model string) bool {
	for _, m := range d.Models {
		if m == model {
			return true
		}
	}
	return false
}

var descriptors = map[ID]Descriptor{
	OpenAI: {
		ID:           OpenAI,
		Name:         "OpenAI",
		BaseURL:      "https://api.openai.com/v1",
		Auth:         AuthBearer,
		Models:       []string{"gpt-4o", "gpt-4o-mini", "gpt-4-turbo", "gpt-3.5-turbo"},
		DefaultModel: "gpt-4o-mini",
	},
	Claude: {
		ID:           Claude,
		Name:         "Claude",
		BaseURL:      "https://api.anthropic.com",
		Auth:         AuthAPIKeyHeader,
		Models:       []string{"claude-3-5-sonnet-20241022", "claude-3-5-haiku-20241022", "claude-3-opus-20240229"},
		DefaultModel: "claude-3-5-sonnet-20241022",
	},
	Gemini: {
		ID:           Gemini,
		Name:         "Gemini",
		BaseURL:      "https://generativelanguage.googleapis.com/v1beta",
		Auth:         AuthAPIKeyHeader,
		Models:       []string{"gemini-1.5-pro", "gemini-1.5-flash", "gemini-2.0-flash"},
		DefaultModel: "gemini-1.5-flash",
	},
	DeepSeek: {
		ID:           DeepSeek,
		Name:         "DeepSeek",
		BaseURL:      "https://api.deepseek.com/v1",
		Auth:         AuthBearer,
		Models:       []string{"deepseek-chat", "deepseek-reasoner"},
		DefaultModel: "deepseek-chat",
	},
	Kimi: {
		ID:           Kimi,
		Name:         "Kimi",
		BaseURL:      "https://api.moonshot.cn/v1",
		Auth:         AuthBearer,
		Models:       []string{"moonshot-v1-8k", "moonshot-v1-32k", "moonshot-v1-128k"},
		DefaultModel: "moonshot-v1-8k",
	},
	Baidu: {
		ID:           Baidu,
		Name:         "Baidu Wenxin",
		BaseURL:      "https://aip.baidubce.com",
		Auth:         AuthOAuthToken,
		Models:       []string{"ernie-4.0-8k", "ernie-3.5-8k", "ernie-speed-8k"},
		DefaultModel: "ernie-3.5-8k",
	},
	Zhipu: {
		ID:           Zhipu,
		Name:         "Zhipu",
		BaseURL:      "https://open.bigmodel.cn/api/paas/v4",
		Auth:         AuthBearer,
		Models:       []string{"glm-4", "glm-4-flash", "glm-3-turbo"},
		DefaultModel: "glm-4-flash",
	},
}

// Describe returns the descriptor for a provider.
func Describe(id ID) (Descriptor, bool) {
	d, ok := descriptors[id]
	return d, ok
}

// Descriptors returns every descriptor in enumeration order.
func Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(descriptors))
	for _, id := range All() {
		out = append(out, descriptors[id])
	}
	return out
}
