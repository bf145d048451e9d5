//go:build !nogpu

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// Embedded bitmap text shader source.
//
//go:embed shaders/bitmap_text.wgsl
var bitmapTextShaderSource string

// ShaderSource returns the WGSL source of the bitmap text shader.
func ShaderSource() string {
	return bitmapTextShaderSource
}

// CompileShader compiles WGSL source to SPIR-V words.
func CompileShader(wgslSource string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgslSource)
	if err != nil {
		return nil, fmt.Errorf("compile bitmap_text shader: %w", err)
	}

	// SPIR-V is little-endian 32-bit words.
	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return code, nil
}

// shaderSource returns the module source for the configured path.
func shaderSource(useSPIRV bool) (hal.ShaderSource, error) {
	if bitmapTextShaderSource == "" {
		return hal.ShaderSource{}, fmt.Errorf("bitmap_text shader source is empty")
	}
	if !useSPIRV {
		return hal.ShaderSource{WGSL: bitmapTextShaderSource}, nil
	}
	code, err := CompileShader(bitmapTextShaderSource)
	if err != nil {
		return hal.ShaderSource{}, err
	}
	return hal.ShaderSource{SPIRV: code}, nil
}
