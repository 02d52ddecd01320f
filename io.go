/*
Copyright © 2019 the SoilWat authors.
This file is part of SoilWat.

SoilWat is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

SoilWat is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with SoilWat.  If not, see <http://www.gnu.org/licenses/>.
*/

package soilwat

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/Knetic/govaluate"
	"gonum.org/v1/gonum/floats"
)

// Outputter is a holder for output parameters.
//
// outputVariables maps the names of the variables for which data
// should be returned to expressions that define how the
// requested data should be calculated. These expressions can utilize the
// daily model outputs, user-defined variables, and functions.
//
// modelVariables is automatically generated based on the model variables that
// are required to calculate the requested output variables.
type Outputter struct {
	outputVariables map[string]string
	modelVariables  []string
	outputFunctions map[string]govaluate.ExpressionFunction
	expressions     map[string]*govaluate.EvaluableExpression
	names           []string
	expansions      int

	// Records holds the evaluated output variables for each day, and
	// History holds the full daily model output.
	Records []Record
	History []DailyOutput
}

// Record holds the output variables for one day, in the same order as
// Outputter.Names.
type Record struct {
	Date   string
	Values []float64
}

// NewOutputter initializes a new Outputter holder and adds a set of default
// output functions. Default functions include:
//
// 'exp(x)' which applies the exponetional function e^x.
//
// 'sum(x)', 'max(x)' and 'min(x)' which summarize a layered variable
// across all layers.
//
// 'layer(x, n)' which returns the value of a layered variable in layer n,
// where the top layer is 1.
func NewOutputter(outputVariables map[string]string, outputFunctions map[string]govaluate.ExpressionFunction) (*Outputter, error) {
	defaultOutputFuncs := map[string]govaluate.ExpressionFunction{
		"exp": func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 1 {
				return nil, fmt.Errorf("soilwat: got %d arguments for function 'exp', but needs 1", len(arg))
			}
			return (float64)(math.Exp(arg[0].(float64))), nil
		},
		"sum":   layeredFunc("sum", floats.Sum),
		"max":   layeredFunc("max", floats.Max),
		"min":   layeredFunc("min", floats.Min),
		"layer": layerValue,
	}

	for key, val := range outputFunctions {
		defaultOutputFuncs[key] = val
	}

	o := Outputter{
		outputVariables: make(map[string]string),
		outputFunctions: defaultOutputFuncs,
	}
	for k, v := range outputVariables {
		o.outputVariables[k] = v
	}

	// Expressions in braces are defined as their own variables.
	regx := regexp.MustCompile("\\{(.*?)\\}")
	for _, val := range outputVariables {
		for _, m := range regx.FindAllString(val, -1) {
			if strings.Count(m, "{") > 1 || strings.Count(m, "}") > 1 {
				return nil, fmt.Errorf("soilwat: unsupported use of braces {} in output variable '%s'", val)
			}
			o.outputVariables[m] = m[1 : len(m)-1]
		}
	}

	if err := o.checkForDerivatives(); err != nil {
		return nil, err
	}

	for k1, v1 := range o.outputVariables {
		if strings.Contains(k1, "{") {
			for k2, v2 := range o.outputVariables {
				if k1 != k2 {
					o.outputVariables[k2] = strings.Replace(v2, v1, "{"+v1+"}", -1)
				}
			}
			delete(o.outputVariables, k1)
		}
	}

	o.expressions = make(map[string]*govaluate.EvaluableExpression)
	for name, expr := range o.outputVariables {
		o.names = append(o.names, name)
		// Braces group the expression they contain.
		e, err := govaluate.NewEvaluableExpressionWithFunctions(
			strings.NewReplacer("{", "(", "}", ")").Replace(expr), o.outputFunctions)
		if err != nil {
			return nil, fmt.Errorf("soilwat: output variable '%s': %v", name, err)
		}
		o.expressions[name] = e
	}
	sort.Strings(o.names)
	return &o, nil
}

func layeredFunc(name string, f func([]float64) float64) govaluate.ExpressionFunction {
	return func(arg ...interface{}) (interface{}, error) {
		if len(arg) != 1 {
			return nil, fmt.Errorf("soilwat: got %d arguments for function '%s', but needs 1", len(arg), name)
		}
		v, ok := arg[0].([]float64)
		if !ok {
			return nil, fmt.Errorf("soilwat: the argument to function '%s' must be a layered variable", name)
		}
		if len(v) == 0 {
			return 0., nil
		}
		return f(v), nil
	}
}

func layerValue(arg ...interface{}) (interface{}, error) {
	if len(arg) != 2 {
		return nil, fmt.Errorf("soilwat: got %d arguments for function 'layer', but needs 2", len(arg))
	}
	v, ok := arg[0].([]float64)
	if !ok {
		return nil, fmt.Errorf("soilwat: the first argument to function 'layer' must be a layered variable")
	}
	n, ok := arg[1].(float64)
	if !ok || n < 1 || int(n) > len(v) {
		return nil, fmt.Errorf("soilwat: invalid layer number %v for function 'layer'", arg[1])
	}
	return v[int(n)-1], nil
}

// Names returns the names of the output variables in sorted order.
func (o *Outputter) Names() []string { return o.names }

// Expression returns the fully expanded expression for output variable name.
func (o *Outputter) Expression(name string) string { return o.outputVariables[name] }

// removeDuplicates removes all duplicated strings from a slice, returning a
// slice that contains only unique strings.
func removeDuplicates(s []string) []string {
	result := make([]string, 0, len(s))
	seen := make(map[string]struct{})
	for _, val := range s {
		if _, ok := seen[val]; !ok {
			result = append(result, val)
			seen[val] = struct{}{}
		}
	}
	return result
}

// maxExpansions limits the substitution of output variables into each
// other so that circular definitions are caught.
const maxExpansions = 1000

var identChar = regexp.MustCompile("[a-zA-Z0-9_]")

// isIdentChar returns whether the character at position i of s could be
// part of a variable name.
func isIdentChar(s string, i int) bool {
	if s == "" {
		return false
	}
	return identChar.MatchString(string(s[i]))
}

// checkForDerivatives identifies the unique model variables that are required
// to calculate the requested output variables. Any user-defined output
// variable that appears in another expression is replaced by the expression
// that defines it.
func (o *Outputter) checkForDerivatives() error {
	o.modelVariables = make([]string, 0, len(o.outputVariables))
	for key, val := range o.outputVariables {
		val = strings.NewReplacer("{", "", "}", "").Replace(val)
		o.outputVariables[key] = val
		expression, err := govaluate.NewEvaluableExpressionWithFunctions(val, o.outputFunctions)
		if err != nil {
			return fmt.Errorf("soilwat: output variable '%s': %v", key, err)
		}
		uniqueVars := removeDuplicates(expression.Vars())
		o.modelVariables = append(o.modelVariables, uniqueVars...)
		for _, uniqueVar := range uniqueVars {
			def := o.outputVariables[uniqueVar]
			if def == "" || def == uniqueVar {
				continue
			}
			o.expansions++
			if uniqueVar == key || o.expansions > maxExpansions {
				return fmt.Errorf("soilwat: output variable '%s' appears to be defined in terms of itself", key)
			}
			// Only replace instances that are not part of a longer name;
			// 'Flow' is not a standalone variable within 'Inflow'.
			splitVal := strings.Split(val, uniqueVar)
			for i := 0; i < len(splitVal)-1; i++ {
				isSuffix := isIdentChar(splitVal[i], len(splitVal[i])-1)
				isPrefix := isIdentChar(splitVal[i+1], 0)
				if !isSuffix && !isPrefix {
					splitVal[i] = splitVal[i] + "(" + def + ")"
				} else {
					splitVal[i] = splitVal[i] + uniqueVar
				}
			}
			o.outputVariables[key] = strings.Join(splitVal, "")
			return o.checkForDerivatives()
		}
	}
	o.modelVariables = removeDuplicates(o.modelVariables)
	return nil
}

// OutputOptions returns the names of the model variables that can be used
// in output expressions. Layered variables have one value per layer.
func (m *Model) OutputOptions() (scalar, layered []string) {
	scalar = []string{"Runoff", "Infiltration", "Eo", "Eos", "Es", "T", "CN2New",
		"CoverSurfaceRunoff", "Pond", "PondEvap", "Drainage", "WaterTable", "ESW", "Warnings"}
	layered = []string{"SWmm", "SW", "Flow", "Flux", "LateralOutflow"}
	for _, s := range m.Profile.Solutes {
		if s.Mobile {
			scalar = append(scalar, "Leach_"+s.Name)
			layered = append(layered, "Delta_"+s.Name)
		}
	}
	return scalar, layered
}

// outputValues returns the variables in o that can be used in
// output expressions.
func outputValues(o *DailyOutput) map[string]interface{} {
	v := map[string]interface{}{
		"Runoff":             o.Runoff,
		"Infiltration":       o.Infiltration,
		"Eo":                 o.Eo,
		"Eos":                o.Eos,
		"Es":                 o.Es,
		"T":                  o.T,
		"CN2New":             o.CN2New,
		"CoverSurfaceRunoff": o.CoverSurfaceRunoff,
		"Pond":               o.Pond,
		"PondEvap":           o.PondEvap,
		"Drainage":           o.Drainage,
		"WaterTable":         o.WaterTable,
		"ESW":                o.ESW,
		"Warnings":           float64(o.Warnings),
		"SWmm":               o.SWmm,
		"SW":                 o.SW,
		"Flow":               o.Flow,
		"Flux":               o.Flux,
		"LateralOutflow":     o.LateralOutflow,
	}
	for name, leach := range o.Leach {
		v["Leach_"+name] = leach
	}
	for name, delta := range o.SoluteDeltas {
		v["Delta_"+name] = delta
	}
	return v
}

// CheckOutputVars ensures the output variables can be calculated.
func (o *Outputter) CheckOutputVars() DomainManipulator {
	return func(m *Model) error {
		scalar, layered := m.OutputOptions()
		available := make(map[string]struct{})
		for _, n := range append(scalar, layered...) {
			available[n] = struct{}{}
		}
		for _, v := range o.modelVariables {
			if _, ok := available[v]; !ok {
				return fmt.Errorf("soilwat: undefined variable name '%s'", v)
			}
		}
		return nil
	}
}

// Collect returns a function that evaluates the output variables for the
// most recently simulated day and stores the results.
func (o *Outputter) Collect() DomainManipulator {
	return func(m *Model) error {
		r, err := o.evaluate(&m.Output)
		if err != nil {
			return err
		}
		o.Records = append(o.Records, r)
		o.History = append(o.History, m.Output)
		return nil
	}
}

func (o *Outputter) evaluate(out *DailyOutput) (Record, error) {
	params := outputValues(out)
	r := Record{Date: out.Date.Format(DateFormat), Values: make([]float64, len(o.names))}
	for i, name := range o.names {
		v, err := o.expressions[name].Evaluate(params)
		if err != nil {
			return r, fmt.Errorf("soilwat: problem calculating output variable '%s': %v", name, err)
		}
		switch vv := v.(type) {
		case float64:
			r.Values[i] = vv
		case bool:
			if vv {
				r.Values[i] = 1
			}
		default:
			return r, fmt.Errorf("soilwat: output variable '%s' is not a number; "+
				"layered variables must be summarized with a function such as sum()", name)
		}
	}
	return r, nil
}
