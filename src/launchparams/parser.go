/*
  MiningHQ z-enemy plugin - exposes the z-enemy CUDA miner to a mining host.
  https://mininghq.io

  Copyright (C) 2018  Donovan Solms     <https://github.com/donovansolms>

  This program is free software: you can redistribute it and/or modify
  it under the terms of the GNU General Public License as published by
  the Free Software Foundation, either version 3 of the License, or
  (at your option) any later version.

  This program is distributed in the hope that it will be useful,
  but WITHOUT ANY WARRANTY; without even the implied warranty of
  MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
  GNU General Public License for more details.

  You should have received a copy of the GNU General Public License
  along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// Package launchparams turns the extra launch parameters users attach to
// each device/algorithm pair into the command line options of a single
// miner process.
package launchparams

import (
	"strconv"
	"strings"

	"github.com/mininghq/zenemy-plugin/src/algorithm"
	"github.com/mininghq/zenemy-plugin/src/internals"
	"github.com/sirupsen/logrus"
)

// Ordering requires the value of option Lower to be numerically below the
// value of option Upper when both are set. Lower is dropped otherwise
type Ordering struct {
	Lower string
	Upper string
}

// Parser builds miner arguments from a set of options
type Parser struct {
	options    []internals.MinerOption
	validators map[string]Validator
	orderings  []Ordering
	log        *logrus.Entry
}

// NewParser creates a parser for the given options. Validators are keyed by
// option ID and may be nil
func NewParser(
	options []internals.MinerOption,
	validators map[string]Validator,
	orderings []Ordering,
	log *logrus.Entry,
) *Parser {
	return &Parser{
		options:    options,
		validators: validators,
		orderings:  orderings,
		log:        log,
	}
}

// Parse returns the arguments for the pairs, in option table order.
// Options that no pair sets are omitted
func (parser *Parser) Parse(pairs []algorithm.MiningPair) []string {
	perDevice := make([]map[string]string, len(pairs))
	for i, pair := range pairs {
		perDevice[i] = parser.tokenize(pair)
	}

	resolved := make(map[string]string)
	flags := make(map[string]bool)
	for _, option := range parser.options {
		switch option.Type {
		case internals.OptionIsParameter:
			for _, values := range perDevice {
				if _, ok := values[option.ID]; ok {
					flags[option.ID] = true
					break
				}
			}

		case internals.OptionWithSingleParameter:
			for _, values := range perDevice {
				if value, ok := values[option.ID]; ok {
					resolved[option.ID] = value
					break
				}
			}

		case internals.OptionWithMultipleParameters:
			anySet := false
			joined := make([]string, len(perDevice))
			for i, values := range perDevice {
				value, ok := values[option.ID]
				if !ok {
					value = option.DefaultValue
				}
				anySet = anySet || ok
				joined[i] = value
			}
			if anySet {
				resolved[option.ID] = strings.Join(joined, option.Delimiter)
			}
		}
	}

	parser.applyOrderings(resolved)

	var args []string
	for _, option := range parser.options {
		if flags[option.ID] {
			args = append(args, option.CommandName())
			continue
		}
		value, ok := resolved[option.ID]
		if !ok {
			continue
		}
		args = append(args, render(option.CommandName(), value)...)
	}
	return args
}

// tokenize extracts the option values set in a pair's extra launch
// parameters. Invalid and unknown values are dropped
func (parser *Parser) tokenize(pair algorithm.MiningPair) map[string]string {
	values := make(map[string]string)
	tokens := strings.Fields(pair.Algorithm.ExtraLaunchParameters)
	log := parser.log
	if pair.Device != nil {
		log = log.WithField("device", pair.Device.UUID())
	}

	for i := 0; i < len(tokens); i++ {
		option, value, consumed, ok := parser.match(tokens, i)
		if !ok {
			log.WithField("token", tokens[i]).Debug("Ignoring unknown launch parameter")
			continue
		}
		i += consumed
		if option.Type == internals.OptionIsParameter {
			values[option.ID] = ""
			continue
		}
		if validate, hasValidator := parser.validators[option.ID]; hasValidator {
			if err := validate(value); err != nil {
				log.WithFields(logrus.Fields{
					"option": option.ID,
					"value":  value,
				}).Warningf("Dropping invalid launch parameter: %s", err)
				continue
			}
		}
		values[option.ID] = value
	}
	return values
}

// match finds the option for tokens[i]. consumed is the number of extra
// tokens the value took
func (parser *Parser) match(tokens []string, i int) (internals.MinerOption, string, int, bool) {
	token := tokens[i]
	for _, option := range parser.options {
		for _, name := range option.Names() {
			bare := strings.TrimSuffix(name, "=")
			switch {
			case token == bare || token == name:
				if option.Type == internals.OptionIsParameter {
					return option, "", 0, true
				}
				if i+1 < len(tokens) {
					return option, tokens[i+1], 1, true
				}
				return option, "", 0, false
			case strings.HasPrefix(token, bare+"="):
				return option, strings.TrimPrefix(token, bare+"="), 0, true
			}
		}
	}
	return internals.MinerOption{}, "", 0, false
}

func (parser *Parser) applyOrderings(resolved map[string]string) {
	for _, ordering := range parser.orderings {
		lower, hasLower := resolved[ordering.Lower]
		upper, hasUpper := resolved[ordering.Upper]
		if !hasLower || !hasUpper {
			continue
		}
		lowerValue, errLower := strconv.ParseFloat(lower, 64)
		upperValue, errUpper := strconv.ParseFloat(upper, 64)
		if errLower != nil || errUpper != nil || lowerValue < upperValue {
			continue
		}
		parser.log.WithFields(logrus.Fields{
			ordering.Lower: lower,
			ordering.Upper: upper,
		}).Warning("Dropping launch parameter that must be below its counterpart")
		delete(resolved, ordering.Lower)
	}
}

// render glues the value to names ending in '='
func render(name string, value string) []string {
	if strings.HasSuffix(name, "=") {
		return []string{name + value}
	}
	return []string{name, value}
}
