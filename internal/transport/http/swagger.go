package http

import (
	"fmt"
	"os"

	"github.com/ghodss/yaml"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/swaggo/swag"
)

type swaggerDoc struct {
	json string
}

func (d swaggerDoc) ReadDoc() string {
	return d.json
}

// RegisterSwagger loads the YAML API description at specPath, registers it
// with swag and serves the UI under /swagger.
func RegisterSwagger(e *echo.Echo, specPath string) error {
	data, err := os.ReadFile(specPath)
	if err != nil {
		return fmt.Errorf("read swagger spec: %w", err)
	}
	doc, err := yaml.YAMLToJSON(data)
	if err != nil {
		return fmt.Errorf("convert swagger spec: %w", err)
	}
	swag.Register(swag.Name, swaggerDoc{json: string(doc)})
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	return nil
}
