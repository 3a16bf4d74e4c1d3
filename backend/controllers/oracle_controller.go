package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/fuxconcurseiro/spartajus-backend/backend/config"
	"github.com/fuxconcurseiro/spartajus-backend/backend/utils"
)

// oracleSystemPrompt frames the assistant as a Brazilian public-law exam
// mentor. Kept short here; the full persona lives with the product copy.
const oracleSystemPrompt = "Responda como um especialista em concursos públicos jurídicos " +
	"(Ministério Público, magistratura e procuradorias). Traga sempre um conceito objetivo, " +
	"o raciocínio que o sustenta e um exemplo prático simples. Ao final, sugira pontos " +
	"derivados do assunto para aprofundamento. Não invente fatos; sinalize conteúdo não verificado."

// OracleClient is the single request/response boundary to the language
// model. Swappable in tests.
type OracleClient interface {
	Generate(system, message string) (string, error)
}

type OracleController struct {
	Cfg    *config.Config
	Client OracleClient
}

func NewOracleController(cfg *config.Config) *OracleController {
	return &OracleController{
		Cfg:    cfg,
		Client: &geminiClient{apiKey: cfg.OracleAPIKey},
	}
}

// Chat godoc
// @Summary Ask the oracle
// @Description Proxies one message to the language model. Upstream failures come back as warnings, never as hard errors.
// @Tags oracle
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 503 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /oracle/chat [post]
func (oc *OracleController) Chat(c *fiber.Ctx) error {
	if oc.Cfg.OracleAPIKey == "" {
		return utils.Success(c, fiber.StatusOK, fiber.Map{
			"warning": "O Oráculo está desativado (sem chave de API).",
		})
	}

	var input struct {
		Message string `json:"message"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if strings.TrimSpace(input.Message) == "" {
		return utils.BadRequest(c, "Message is required")
	}

	reply, err := oc.Client.Generate(oracleSystemPrompt, input.Message)
	if err != nil {
		warning := "O Oráculo não respondeu. Tente novamente."
		if strings.Contains(err.Error(), "429") {
			warning = "O Oráculo está sobrecarregado (cota excedida). Aguarde alguns segundos."
		}
		return utils.Success(c, fiber.StatusOK, fiber.Map{"warning": warning})
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"reply": StripMarkdown(reply),
	})
}

var (
	mdEmphasis = regexp.MustCompile(`\*\*|__|\*|_`)
	mdHeading  = regexp.MustCompile(`(?m)^#+\s+`)
	mdLink     = regexp.MustCompile(`\[(.*?)\]\(.*?\)`)
	mdFence    = regexp.MustCompile("(?s)```.*?```")
	mdTick     = regexp.MustCompile("`")
	mdBullet   = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
)

// StripMarkdown flattens model output into plain text for display.
func StripMarkdown(text string) string {
	text = mdFence.ReplaceAllString(text, "")
	text = mdEmphasis.ReplaceAllString(text, "")
	text = mdHeading.ReplaceAllString(text, "")
	text = mdLink.ReplaceAllString(text, "$1")
	text = mdTick.ReplaceAllString(text, "")
	text = mdBullet.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// geminiClient talks to the generative-language REST endpoint.
type geminiClient struct {
	apiKey string
}

const geminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash-latest:generateContent"

func (g *geminiClient) Generate(system, message string) (string, error) {
	payload := map[string]interface{}{
		"system_instruction": map[string]interface{}{
			"parts": []map[string]string{{"text": system}},
		},
		"contents": []map[string]interface{}{
			{"parts": []map[string]string{{"text": message}}},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	client := &http.Client{Timeout: 30 * time.Second}
	req, err := http.NewRequest(http.MethodPost, geminiEndpoint+"?key="+g.apiKey, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("oracle upstream returned %d", resp.StatusCode)
	}

	var parsed struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("oracle returned an empty response")
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
