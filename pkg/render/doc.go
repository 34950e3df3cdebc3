// Package render converts rendered graphs between output formats.
//
// Graph layout and SVG generation live in the [nodelink] subpackage. This
// package holds the format list shared by the CLI and the HTTP API, and the
// SVG to PDF/PNG conversion, which shells out to rsvg-convert (librsvg):
//
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [nodelink]: github.com/matzehuels/linkgraph/pkg/render/nodelink
package render
