// Package canopy is a retained-mode UI layer for [Ebitengine]: a rect-node
// hierarchy with components, and graphics that rebuild their geometry and
// material lazily, at most once per frame.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	stage := canopy.NewStage()
//	// ... add nodes ...
//	canopy.Run(stage, canopy.RunConfig{
//		Title: "My UI", Width: 640, Height: 480,
//	})
//
// For full control, implement [ebiten.Game] yourself and call
// [Stage.Update] and [Stage.Draw] directly.
//
// # Nodes and components
//
// Every element is a [Node] with a local transform and a layout rect (size
// plus pivot). Behaviour lives in components attached with
// [Node.AddComponent]: [Canvas] makes a node a rendering root, [Graphic]
// draws, [CanvasGroup] and [ShapeFilter] filter raycasts, [Shadow] and
// [Outline] modify meshes, [BlendOverride] and [ColorMatrix] modify
// materials and [FitToParent] lays nodes out.
//
//	panel := canopy.NewNode("panel")
//	panel.SetSize(200, 120)
//	panel.AddComponent(canopy.NewCanvas(canopy.RenderModeScreenSpaceOverlay))
//	panel.AddComponent(canopy.NewGraphicRaycaster())
//	stage.Root().AddChild(panel)
//
//	bg := canopy.NewGraphic()
//	bg.SetColor(canopy.Color{R: 0.2, G: 0.2, B: 0.3, A: 1})
//	panel.AddComponent(bg)
//
// # Dirty state and rebuilds
//
// Changing a graphic only marks it dirty ([Graphic.MarkVerticesDirty],
// [Graphic.MarkMaterialDirty], [Graphic.MarkLayoutDirty]) and queues it with
// the stage's [CanvasUpdateRegistry]. [Stage.Draw] runs the layout pass and
// then the graphic pass; each queued graphic regenerates its mesh and
// material once. Culled graphics keep their dirty state and are rebuilt when
// they come back into view.
//
// # Hit testing
//
// [Stage.Raycast] asks every [GraphicRaycaster] for the graphics under a
// screen point. Each candidate walks its ancestors through
// [Graphic.Raycast], consulting every [RaycastFilter] on the way.
//
// Pointer events are delivered through [Stage.OnClick], [Stage.OnPointerDown]
// and friends. [Stage.InjectClick] and [LoadScript] feed synthetic input for
// automated runs, and [Stage.Screenshot] captures frames to PNG.
//
// # ECS
//
// The canopy/ecs sub-module forwards pointer interactions and rebuild
// notifications into a [Donburi] world.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package canopy
