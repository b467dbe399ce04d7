/*
Package calc evaluates the arithmetic expressions accepted by the calc command.

# Grammar summary

Below you can see the grammar accepted by Evaluate. Quoted strings are
literal characters.

    integer = ['-'] digit [digit ...]
    float   = integer '.' digit [digit ...]
    sci     = (float | integer) ('e' | 'E') ['+' | '-'] digit [digit ...]
    number  = sci | float | integer

    value   = number | '(' expr ')'
    term    = value [('*' | '/') value ...]
    expr    = term [('+' | '-') term ...]

# Grammar description

| - logical OR separator

[ ... ] - optional, possibly repeated, tokens

number - the longest literal wins, so 1.5e3 is read as a single sci token and
never as the float 1.5 followed by garbage. Every number is a float64.

term, expr - operators of the same precedence fold from left to right as soon
as both operands are known, so 8 / 2 / 2 is 2 and 1 - 2 - 3 is -4.

Spaces and tabs may appear between any two tokens. Division is IEEE division:
dividing by zero yields an infinity or NaN instead of an error.

A unary minus is only part of a number literal. -(1) is not accepted.

# Example

Below you can find examples of accepted expressions:

    1 + 2 * 3
    (1 + 2) * 3
    -2.5e-3 / 4
    1 - -1
*/
package calc
