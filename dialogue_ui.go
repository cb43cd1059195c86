package main

import (
	"image/color"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

// DialogueUI is the boxed speech panel at the bottom of the screen.
type DialogueUI struct {
	ui      *ebitenui.UI
	panel   *widget.Container
	speaker *widget.Text
	line    *widget.Text
}

// NewDialogueUI lays out the panel for a window of the given size. The panel
// starts hidden.
func NewDialogueUI(width, height int) *DialogueUI {
	// blue gradient box in the classic RPG style, flattened to one colour
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x10, G: 0x20, B: 0x78, A: 0xe6})

	goFace := ebtext.NewGoXFace(basicfont.Face7x13)
	var face ebtext.Face = goFace

	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	gold := color.NRGBA{R: 0xff, G: 0xd8, B: 0x6b, A: 0xff}
	grey := color.NRGBA{R: 0xb8, G: 0xc0, B: 0xe0, A: 0xff}

	speaker := widget.NewText(
		widget.TextOpts.Text("", &face, gold),
	)
	line := widget.NewText(
		widget.TextOpts.Text("", &face, white),
	)
	hint := widget.NewText(
		widget.TextOpts.Text("Enter / E / click to continue", &face, grey),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionEnd})),
	)

	panelHeight := height / 4
	if panelHeight < 90 {
		panelHeight = 90
	}

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(8),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 14, Bottom: 14, Left: 20, Right: 20}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(int(float64(width)*0.8), panelHeight),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionCenter,
				VerticalPosition:   widget.AnchorLayoutPositionEnd,
			}),
		),
	)
	panel.AddChild(speaker)
	panel.AddChild(line)
	panel.AddChild(hint)
	panel.GetWidget().Visibility = widget.Visibility_Hide

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)

	return &DialogueUI{
		ui:      &ebitenui.UI{Container: root},
		panel:   panel,
		speaker: speaker,
		line:    line,
	}
}

func (d *DialogueUI) SetLine(speaker, text string) {
	d.speaker.Label = speaker
	d.line.Label = text
}

func (d *DialogueUI) SetVisible(visible bool) {
	if visible {
		d.panel.GetWidget().Visibility = widget.Visibility_Show
		return
	}
	d.panel.GetWidget().Visibility = widget.Visibility_Hide
}

func (d *DialogueUI) Visible() bool {
	return d.panel.GetWidget().Visibility == widget.Visibility_Show
}

func (d *DialogueUI) Update() {
	d.ui.Update()
}

func (d *DialogueUI) Draw(screen *ebiten.Image) {
	d.ui.Draw(screen)
}
