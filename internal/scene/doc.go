// Package scene assembles ready-to-run simulations and drives them one
// frame at a time.
//
// A [Scene] owns its force model, one or more [sim.Simulation] values and
// any moving obstacles. Callers pass per-frame [Commands] instead of the
// scene polling input itself:
//
//	sc, _ := scene.Build("cloth", config.DefaultConfig())
//	for frame := 0; frame < 600; frame++ {
//	    cmd := scene.Commands{}
//	    if frame == 300 {
//	        cmd.CyclePins = true
//	    }
//	    if err := sc.Update(1.0/60, cmd); err != nil {
//	        return err
//	    }
//	    draw(sc.State().Positions)
//	}
package scene
